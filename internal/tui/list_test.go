package tui

import (
	"testing"
	"time"

	"github.com/matheuskafuri/feedview/internal/article"
	"github.com/matheuskafuri/feedview/internal/reveal"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrUTF8(t *testing.T) {
	got := truncateStr("日本語テスト", 5)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 5) = %q, want %q", got, want)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
		{time.Time{}, "unknown"},
	}
	for _, tt := range tests {
		got := relativeTime(tt.t)
		if got != tt.want {
			t.Errorf("relativeTime(%v ago) = %q, want %q", now.Sub(tt.t), got, tt.want)
		}
	}
}

func TestRelativeTimeOld(t *testing.T) {
	old := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	got := relativeTime(old)
	if got != "Jun 15" {
		t.Errorf("relativeTime(old date) = %q, want %q", got, "Jun 15")
	}
}

func items(n, from int) []reveal.Item {
	out := make([]reveal.Item, n)
	for i := range out {
		out[i] = reveal.Item{Article: article.Article{Title: "x"}, Position: from + i}
	}
	return out
}

func TestVisibleListApply(t *testing.T) {
	var l visibleList
	l.apply(reveal.Event{Kind: reveal.EventReplace, Items: items(20, 0), Total: 45})
	l.apply(reveal.Event{Kind: reveal.EventAppend, Items: items(20, 20), Total: 45})
	if l.len() != 40 || l.total != 45 || l.exhausted {
		t.Fatalf("unexpected state after append: len=%d total=%d exhausted=%v", l.len(), l.total, l.exhausted)
	}

	l.apply(reveal.Event{Kind: reveal.EventAppend, Items: items(5, 40), Total: 45})
	l.apply(reveal.Event{Kind: reveal.EventExhausted, Total: 45})
	if l.len() != 45 || !l.exhausted {
		t.Fatalf("expected 45 exhausted, got len=%d exhausted=%v", l.len(), l.exhausted)
	}

	l.apply(reveal.Event{Kind: reveal.EventReplace, Total: 0})
	if l.len() != 0 || l.total != 0 || l.exhausted {
		t.Errorf("replace should clear the list, got len=%d total=%d exhausted=%v", l.len(), l.total, l.exhausted)
	}
}

func TestScrollOffset(t *testing.T) {
	tests := []struct {
		offset, cursor, rows, n int
		want                    int
	}{
		{0, 0, 5, 20, 0},
		{0, 4, 5, 20, 0},
		{0, 5, 5, 20, 1},
		{10, 3, 5, 20, 3},
		{0, 19, 5, 20, 15},
		{8, 2, 5, 3, 0},
	}
	for _, tt := range tests {
		got := scrollOffset(tt.offset, tt.cursor, tt.rows, tt.n)
		if got != tt.want {
			t.Errorf("scrollOffset(%d, %d, %d, %d) = %d, want %d", tt.offset, tt.cursor, tt.rows, tt.n, got, tt.want)
		}
	}
}

func TestVisibleRows(t *testing.T) {
	if got := visibleRows(0); got != 1 {
		t.Errorf("visibleRows(0) = %d, want 1", got)
	}
	if got := visibleRows(30); got != 10 {
		t.Errorf("visibleRows(30) = %d, want 10", got)
	}
}
