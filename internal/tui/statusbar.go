package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type statusInfo struct {
	count     int
	revealed  int
	total     int
	query     string
	exhausted bool
	searching bool
}

func renderStatusBar(s statusInfo, width int) string {
	left := fmt.Sprintf(" %d articles", s.count)
	if s.query != "" {
		left = fmt.Sprintf(" %d of %d match %q", s.count, s.total, s.query)
	}
	if s.count > 0 && !s.exhausted {
		left += fmt.Sprintf(" · showing %d", s.revealed)
	}

	right := " / search  o open  ? help  q quit "
	if s.searching {
		right = " esc clear  enter done "
	}

	gap := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
