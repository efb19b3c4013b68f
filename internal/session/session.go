// Package session ties the article store, the current query and the reveal
// controller together for one browsing session.
package session

import (
	"log/slog"

	"github.com/matheuskafuri/feedview/internal/article"
	"github.com/matheuskafuri/feedview/internal/filter"
	"github.com/matheuskafuri/feedview/internal/reveal"
)

type Session struct {
	store  *article.Store
	ctrl   *reveal.Controller
	query  string
	log    *slog.Logger
	resets int
}

// Options configures a Session.
type Options struct {
	BatchSize int
	Sink      reveal.Sink
	Logger    *slog.Logger
}

// New creates a session over store. Nothing is revealed until Start.
func New(store *article.Store, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store: store,
		ctrl:  reveal.New(opts.BatchSize, opts.Sink),
		log:   logger,
	}
}

// Start shows the unfiltered set.
func (s *Session) Start() {
	s.SetQuery("")
}

// SetQuery records q, recomputes the filtered view in full and resets the
// reveal controller. It runs on every call, even when q is unchanged.
func (s *Session) SetQuery(q string) {
	s.query = q
	view := filter.Filter(s.store.All(), q)
	s.resets++
	s.log.Debug("query changed", "query", q, "matches", len(view))
	s.ctrl.Reset(view)
}

// OnProximitySignal forwards the viewport proximity trigger.
func (s *Session) OnProximitySignal() {
	s.ctrl.OnProximitySignal()
}

func (s *Session) Query() string { return s.query }

// Count is the size of the current filtered view.
func (s *Session) Count() int { return s.ctrl.Total() }

func (s *Session) Revealed() int { return s.ctrl.Revealed() }

func (s *Session) Exhausted() bool { return s.ctrl.Exhausted() }

// TotalArticles is the size of the unfiltered set.
func (s *Session) TotalArticles() int { return s.store.Len() }

// Resets counts query transitions, including Start.
func (s *Session) Resets() int { return s.resets }
