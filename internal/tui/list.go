package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/feedview/internal/reveal"
)

// itemHeight is the rendered height of one list entry: two lines plus a gap.
const itemHeight = 3

// visibleList mirrors what the reveal controller has shown so far.
type visibleList struct {
	items     []reveal.Item
	total     int
	exhausted bool
}

func (l *visibleList) apply(e reveal.Event) {
	switch e.Kind {
	case reveal.EventReplace:
		l.items = append([]reveal.Item(nil), e.Items...)
		l.total = e.Total
		l.exhausted = false
	case reveal.EventAppend:
		l.items = append(l.items, e.Items...)
		l.total = e.Total
	case reveal.EventExhausted:
		l.exhausted = true
	}
}

func (l *visibleList) len() int { return len(l.items) }

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func renderListItem(it reveal.Item, selected bool, width int) string {
	if width < 16 {
		width = 30
	}

	index := itemIndexStyle.Render(fmt.Sprintf("%d", it.Position+1))
	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(it.Article.Title, width-9))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(it.Article.Title, width-9))
	}

	meta := strings.Repeat(" ", 7) + itemSourceStyle.Render(it.Article.Source) + " " +
		itemTimeStyle.Render("· "+relativeTime(it.Article.PublishedAt))

	return index + title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// visibleRows is how many entries fit in a pane of the given height.
func visibleRows(height int) int {
	return max(1, height/itemHeight)
}

// scrollOffset keeps cursor inside the window [offset, offset+rows).
func scrollOffset(offset, cursor, rows, n int) int {
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+rows {
		offset = cursor - rows + 1
	}
	if offset > n-rows {
		offset = n - rows
	}
	return max(0, offset)
}

func renderList(l *visibleList, cursor, offset, height, width int) string {
	if l.len() == 0 {
		return lipglossCenter("No articles found", width, height)
	}

	rows := visibleRows(height)
	end := min(offset+rows, l.len())

	var b strings.Builder
	for i := offset; i < end; i++ {
		b.WriteString(renderListItem(l.items[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	if end == l.len() && l.exhausted && rows > end-offset {
		b.WriteString("\n\n" + endOfListStyle.Render(fmt.Sprintf("       end of list · %d articles", l.total)))
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", max(0, (width-len(s))/2)) + s
}
