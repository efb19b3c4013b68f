package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// debouncer coalesces search keystrokes. Each submit supersedes the previous
// one; only the newest pending query is applied when its tick fires.
type debouncer struct {
	delay time.Duration
	seq   int
}

func (d *debouncer) submit(query string) tea.Cmd {
	d.seq++
	msg := debouncedQueryMsg{seq: d.seq, query: query}
	if d.delay <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d.delay, func(time.Time) tea.Msg { return msg })
}

// cancel drops whatever is pending.
func (d *debouncer) cancel() { d.seq++ }

func (d *debouncer) current(msg debouncedQueryMsg) bool {
	return msg.seq == d.seq
}
