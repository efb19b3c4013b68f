package reveal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheuskafuri/feedview/internal/article"
)

type recorder struct {
	events []Event
	onEmit func(Event)
}

func (r *recorder) Emit(e Event) {
	r.events = append(r.events, e)
	if r.onEmit != nil {
		r.onEmit(e)
	}
}

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func (r *recorder) batchSizes() []int {
	var out []int
	for _, e := range r.events {
		if e.Kind == EventReplace || e.Kind == EventAppend {
			out = append(out, len(e.Items))
		}
	}
	return out
}

func (r *recorder) items() []Item {
	var out []Item
	for _, e := range r.events {
		out = append(out, e.Items...)
	}
	return out
}

func makeView(n int) []article.Article {
	out := make([]article.Article, n)
	for i := range out {
		out[i] = article.Article{Title: fmt.Sprintf("article %d", i)}
	}
	return out
}

func drain(c *Controller) {
	for !c.Exhausted() {
		c.RevealNext()
	}
}

func TestScenario45Items(t *testing.T) {
	rec := &recorder{}
	c := New(20, rec)

	c.Reset(makeView(45))
	drain(c)

	assert.Equal(t, []int{20, 20, 5}, rec.batchSizes())
	assert.Equal(t, []EventKind{EventReplace, EventAppend, EventAppend, EventExhausted}, rec.kinds())
	assert.Equal(t, 45, c.Revealed())
	assert.True(t, c.Exhausted())
}

func TestCoverageNoSkipNoRepeat(t *testing.T) {
	for _, n := range []int{1, 7, 20, 21, 40, 99} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			rec := &recorder{}
			c := New(20, rec)
			view := makeView(n)
			c.Reset(view)
			drain(c)

			items := rec.items()
			require.Len(t, items, n)
			for i, it := range items {
				assert.Equal(t, i, it.Position)
				assert.Equal(t, view[i], it.Article)
			}
		})
	}
}

func TestBatchSizing(t *testing.T) {
	tests := []struct {
		n, batch int
		want     []int
	}{
		{40, 20, []int{20, 20}},
		{41, 20, []int{20, 20, 1}},
		{3, 20, []int{3}},
		{10, 3, []int{3, 3, 3, 1}},
	}
	for _, tt := range tests {
		rec := &recorder{}
		c := New(tt.batch, rec)
		c.Reset(makeView(tt.n))
		drain(c)
		assert.Equal(t, tt.want, rec.batchSizes(), "n=%d batch=%d", tt.n, tt.batch)
	}
}

func TestResetRewindsCursor(t *testing.T) {
	rec := &recorder{}
	c := New(20, rec)
	c.Reset(makeView(100))
	c.RevealNext()
	c.RevealNext()
	require.Equal(t, 60, c.Revealed())

	c.Reset(makeView(7))
	assert.Equal(t, 7, c.Revealed())
	assert.True(t, c.Exhausted())

	c.Reset(makeView(30))
	assert.Equal(t, 20, c.Revealed())
	last := rec.events[len(rec.events)-1]
	assert.Equal(t, EventReplace, last.Kind)
	assert.Equal(t, 0, last.Items[0].Position)
	assert.Equal(t, 30, last.Total)
}

func TestResetToEmptyView(t *testing.T) {
	rec := &recorder{}
	c := New(20, rec)
	c.Reset(makeView(12))
	rec.events = nil

	c.Reset(nil)

	require.Len(t, rec.events, 2)
	assert.True(t, rec.events[0].Empty())
	assert.Equal(t, EventExhausted, rec.events[1].Kind)
	assert.Equal(t, 0, c.Revealed())
	assert.Equal(t, 0, c.Total())

	c.RevealNext()
	c.OnProximitySignal()
	assert.Len(t, rec.events, 2, "no batch may follow the empty marker")
}

func TestReentrantRevealIsDropped(t *testing.T) {
	rec := &recorder{}
	c := New(10, rec)
	c.Reset(makeView(50))

	calls := 0
	rec.onEmit = func(e Event) {
		if e.Kind == EventAppend {
			calls++
			// A second proximity signal lands before the first reveal finished.
			c.OnProximitySignal()
			c.RevealNext()
		}
	}
	c.OnProximitySignal()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 20, c.Revealed())
	assert.False(t, c.Loading())
}

func TestResetDuringLoadingDoesNotDeadlock(t *testing.T) {
	rec := &recorder{}
	c := New(10, rec)
	c.Reset(makeView(50))

	fresh := makeView(15)
	rec.onEmit = func(e Event) {
		if e.Kind == EventAppend && e.Total == 50 {
			rec.onEmit = nil
			c.Reset(fresh)
		}
	}
	c.RevealNext()

	assert.False(t, c.Loading())
	assert.Equal(t, 15, c.Total())
	assert.Equal(t, 10, c.Revealed())

	c.RevealNext()
	assert.Equal(t, 15, c.Revealed())
	assert.True(t, c.Exhausted())

	for _, e := range rec.events {
		if e.Kind == EventExhausted {
			assert.Equal(t, 15, e.Total, "the abandoned view must not report exhaustion")
		}
	}
}

func TestProximityAfterExhaustion(t *testing.T) {
	rec := &recorder{}
	c := New(20, rec)
	c.Reset(makeView(5))
	n := len(rec.events)

	for i := 0; i < 5; i++ {
		c.OnProximitySignal()
	}
	assert.Len(t, rec.events, n)
}

func TestDefaultBatchSize(t *testing.T) {
	c := New(0, nil)
	assert.Equal(t, DefaultBatchSize, c.BatchSize())
	c.Reset(makeView(25))
	assert.Equal(t, 20, c.Revealed())
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "replace", EventReplace.String())
	assert.Equal(t, "append", EventAppend.String())
	assert.Equal(t, "exhausted", EventExhausted.String())
	assert.Equal(t, "unknown", EventKind(9).String())
}
