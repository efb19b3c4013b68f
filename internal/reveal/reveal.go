// Package reveal grows a visible prefix of a filtered article view in fixed
// size batches.
//
// A Controller is driven from a single goroutine. Overlapping reveal requests
// arrive re-entrantly, from inside a Sink callback, and are dropped by the
// loading guard. It is not safe for concurrent use.
package reveal

import "github.com/matheuskafuri/feedview/internal/article"

// DefaultBatchSize is used when a Controller is built with a non-positive
// batch size.
const DefaultBatchSize = 20

type EventKind int

const (
	// EventReplace installs a new visible list. An empty Items is the
	// empty marker.
	EventReplace EventKind = iota
	// EventAppend extends the visible list.
	EventAppend
	// EventExhausted means no batches remain for the current view.
	EventExhausted
)

func (k EventKind) String() string {
	switch k {
	case EventReplace:
		return "replace"
	case EventAppend:
		return "append"
	case EventExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Item is an article with its absolute position in the current view.
type Item struct {
	Article  article.Article
	Position int
}

// Event is emitted to the Sink. Total is the size of the current view.
type Event struct {
	Kind  EventKind
	Items []Item
	Total int
}

// Empty reports whether e is the empty marker.
func (e Event) Empty() bool {
	return e.Kind == EventReplace && len(e.Items) == 0
}

// Sink receives presentation events.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

type Controller struct {
	sink      Sink
	batchSize int

	view    []article.Article
	cursor  int
	loading bool
	epoch   uint64
}

func New(batchSize int, sink Sink) *Controller {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if sink == nil {
		sink = SinkFunc(func(Event) {})
	}
	return &Controller{sink: sink, batchSize: batchSize}
}

// Reset installs view, rewinds the cursor and reveals the first batch as a
// replace event. Any reveal still marked loading belongs to the discarded
// view and is abandoned.
func (c *Controller) Reset(view []article.Article) {
	c.epoch++
	c.view = view
	c.cursor = 0
	c.loading = false

	if len(view) == 0 {
		c.sink.Emit(Event{Kind: EventReplace, Total: 0})
		c.sink.Emit(Event{Kind: EventExhausted, Total: 0})
		return
	}
	c.step(EventReplace)
}

// RevealNext appends the next batch. It does nothing while a reveal is in
// progress or once the view is exhausted.
func (c *Controller) RevealNext() {
	if c.loading || c.cursor >= len(c.view) {
		return
	}
	c.step(EventAppend)
}

// OnProximitySignal handles the viewport nearing the end of the shown items.
func (c *Controller) OnProximitySignal() {
	c.RevealNext()
}

func (c *Controller) step(kind EventKind) {
	c.loading = true
	epoch := c.epoch

	start := c.cursor
	end := min(start+c.batchSize, len(c.view))
	items := make([]Item, 0, end-start)
	for i, a := range c.view[start:end] {
		items = append(items, Item{Article: a, Position: start + i})
	}
	c.cursor = end
	total := len(c.view)

	c.sink.Emit(Event{Kind: kind, Items: items, Total: total})
	if c.epoch != epoch {
		// Reset ran from inside the sink; the new view owns the state now.
		return
	}
	if c.cursor == total {
		c.sink.Emit(Event{Kind: EventExhausted, Total: total})
		if c.epoch != epoch {
			return
		}
	}
	c.loading = false
}

// Revealed is the number of leading view elements shown so far.
func (c *Controller) Revealed() int { return c.cursor }

// Total is the size of the current view.
func (c *Controller) Total() int { return len(c.view) }

func (c *Controller) Exhausted() bool { return c.cursor >= len(c.view) }

func (c *Controller) Loading() bool { return c.loading }

func (c *Controller) BatchSize() int { return c.batchSize }
