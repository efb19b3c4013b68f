package tui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/feedview/internal/reveal"
)

func renderPreview(it *reveal.Item, total, width, height int) string {
	if it == nil {
		return lipglossCenter("Select an article", width, height)
	}

	contentWidth := max(10, width-2)
	a := it.Article

	title := previewTitleStyle.Width(contentWidth).Render(wrapText(a.Title, contentWidth))

	published := "date unknown"
	if !a.PublishedAt.IsZero() {
		published = a.PublishedAt.Local().Format("Jan 2, 2006 15:04")
	}
	source := previewSourceStyle.Render(fmt.Sprintf("%s · %s", a.Source, published))

	position := itemTimeStyle.Render(fmt.Sprintf("%d of %d", it.Position+1, total))
	link := previewLinkStyle.Width(contentWidth).Render(hostOf(a.URL) + "\n" + wrapText(a.URL, contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, title, source, position, link)

	lines := strings.Split(content, "\n")
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
