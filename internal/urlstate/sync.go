package urlstate

import (
	"github.com/five82/atlas/internal/filter"
)

// Change describes what an address → state pass did.
type Change struct {
	Changed   bool
	OldRegion string
	NewRegion string
}

// RegionChanged reports whether the pass moved the region gate.
func (c Change) RegionChanged() bool {
	return c.Changed && c.OldRegion != c.NewRegion
}

// Synchronizer keeps a filter state and a history consistent in both
// directions. Writes happen only when something differs, which is what
// stops the two directions from triggering each other.
type Synchronizer struct {
	state   *filter.State
	history *History
}

func NewSynchronizer(st *filter.State, h *History) *Synchronizer {
	return &Synchronizer{state: st, history: h}
}

// History exposes the underlying navigation stack.
func (s *Synchronizer) History() *History {
	return s.history
}

// Mount runs the address → state pass before anything else so a shared
// link wins over in-memory defaults.
func (s *Synchronizer) Mount() Change {
	return s.Navigated()
}

// StateChanged writes the current state into the address. The entry is
// replaced, never pushed, and only when the encoded query differs. It
// reports whether the address was written.
func (s *Synchronizer) StateChanged() bool {
	cur := s.history.Current()
	q := Encode(*s.state)

	if cur.Route().Kind != RouteHome {
		s.history.Push(Home(q))
		return true
	}
	if q.Encode() == cur.RawQuery() {
		return false
	}
	s.history.Replace(Entry{Path: cur.Path, Query: q})
	return true
}

// Navigated parses the current address into the state. Detail routes
// leave the state alone; so does an address that parses to the state
// already held.
func (s *Synchronizer) Navigated() Change {
	cur := s.history.Current()
	if cur.Route().Kind != RouteHome {
		return Change{}
	}

	next := Parse(cur.Query)
	if next.Equal(*s.state) {
		return Change{}
	}
	old := s.state.Region
	*s.state = next
	return Change{Changed: true, OldRegion: old, NewRegion: next.Region}
}
