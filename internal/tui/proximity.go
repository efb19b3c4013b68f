package tui

import "github.com/matheuskafuri/feedview/internal/reveal"

// proximity decides when the rendered end of the list is close enough to the
// last revealed item to ask for another batch. It is armed by a non-empty
// replace and disarmed once the view is exhausted.
type proximity struct {
	threshold int
	armed     bool
}

func newProximity(threshold int) proximity {
	if threshold < 1 {
		threshold = 1
	}
	return proximity{threshold: threshold}
}

func (p *proximity) observe(e reveal.Event) {
	switch e.Kind {
	case reveal.EventReplace:
		p.armed = !e.Empty()
	case reveal.EventExhausted:
		p.armed = false
	}
}

// near reports whether lastRendered, the index of the bottom row on screen,
// is within threshold rows of the end of the revealed items.
func (p *proximity) near(lastRendered, revealed int) bool {
	if !p.armed || revealed == 0 {
		return false
	}
	return revealed-1-lastRendered < p.threshold
}
