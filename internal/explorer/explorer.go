package explorer

import (
	"sort"

	"github.com/five82/atlas/internal/filter"
	"github.com/five82/atlas/internal/restcountries"
	"github.com/five82/atlas/internal/urlstate"
)

// Explorer owns the filter state of one session and keeps it in step with
// the navigation history. Every write returns a filter.Refresh telling the
// caller whether the record store needs new records; the Explorer itself
// never fetches.
type Explorer struct {
	state   filter.State
	history *urlstate.History
	sync    *urlstate.Synchronizer
}

// New starts a session at the given location. An empty location is the
// unfiltered country list.
func New(initialLocation string) *Explorer {
	e := &Explorer{
		state:   filter.Default(),
		history: urlstate.NewHistory(urlstate.ParseLocation(initialLocation)),
	}
	e.sync = urlstate.NewSynchronizer(&e.state, e.history)
	return e
}

// Mount parses the starting location into the state, canonicalises the
// address, and asks for the initial load.
func (e *Explorer) Mount() filter.Refresh {
	e.sync.Mount()
	if e.Route().Kind == urlstate.RouteHome {
		e.sync.StateChanged()
	}
	return filter.Refresh{Needed: true, Region: e.state.Region}
}

// State returns a copy of the current filter state.
func (e *Explorer) State() filter.State {
	return e.state
}

// Location is the current history entry.
func (e *Explorer) Location() urlstate.Entry {
	return e.history.Current()
}

func (e *Explorer) Route() urlstate.Route {
	return e.history.Current().Route()
}

func (e *Explorer) CanBack() bool    { return e.history.CanBack() }
func (e *Explorer) CanForward() bool { return e.history.CanForward() }

func (e *Explorer) SetSearch(text string) filter.Refresh {
	r := e.state.SetSearch(text)
	e.sync.StateChanged()
	return r
}

func (e *Explorer) SetRegion(region string) filter.Refresh {
	r := e.state.SetRegion(region)
	e.sync.StateChanged()
	return r
}

func (e *Explorer) SetSort(key filter.SortKey, order filter.SortOrder) filter.Refresh {
	r := e.state.SetSort(key, order)
	e.sync.StateChanged()
	return r
}

func (e *Explorer) Clear() filter.Refresh {
	r := e.state.Clear()
	e.sync.StateChanged()
	return r
}

// Navigate pushes a typed or pasted location and applies it.
func (e *Explorer) Navigate(raw string) filter.Refresh {
	e.history.Push(urlstate.ParseLocation(raw))
	return e.navigated()
}

// OpenCountry pushes the detail location for name.
func (e *Explorer) OpenCountry(name string) {
	e.history.Push(urlstate.CountryEntry(name))
}

// Back steps back through history. ok is false when there is nowhere to go.
func (e *Explorer) Back() (refresh filter.Refresh, ok bool) {
	if !e.history.Back() {
		return filter.Refresh{}, false
	}
	return e.navigated(), true
}

// Forward steps forward through history.
func (e *Explorer) Forward() (refresh filter.Refresh, ok bool) {
	if !e.history.Forward() {
		return filter.Refresh{}, false
	}
	return e.navigated(), true
}

func (e *Explorer) navigated() filter.Refresh {
	c := e.sync.Navigated()
	if !c.RegionChanged() {
		return filter.Refresh{}
	}
	return filter.Refresh{Needed: true, Region: c.NewRegion}
}

// View derives the ordered records to display.
func (e *Explorer) View(records []restcountries.Country) []restcountries.Country {
	return filter.Apply(records, e.state)
}

// Regions returns the distinct non-empty regions present in records, sorted.
func Regions(records []restcountries.Country) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(restcountries.Regions))
	for _, c := range records {
		if c.Region == "" {
			continue
		}
		if _, ok := seen[c.Region]; ok {
			continue
		}
		seen[c.Region] = struct{}{}
		out = append(out, c.Region)
	}
	sort.Strings(out)
	return out
}

// CountryByCode finds the first record whose cca2 or cca3 equals code.
func CountryByCode(records []restcountries.Country, code string) (restcountries.Country, bool) {
	for _, c := range records {
		if c.HasCode(code) {
			return c, true
		}
	}
	return restcountries.Country{}, false
}

// RegionChoices lists the regions a user can cycle through: the known
// REST Countries regions plus any others present in records.
func RegionChoices(records []restcountries.Country) []string {
	seen := make(map[string]struct{}, len(restcountries.Regions))
	out := make([]string, 0, len(restcountries.Regions))
	for _, r := range restcountries.Regions {
		seen[r] = struct{}{}
		out = append(out, r)
	}
	for _, r := range Regions(records) {
		if _, ok := seen[r]; !ok {
			out = append(out, r)
		}
	}
	sort.Strings(out)
	return out
}

// NextRegion returns the region after current in choices, cycling through
// "" (all regions) after the last one.
func NextRegion(choices []string, current string) string {
	if current == "" {
		if len(choices) == 0 {
			return ""
		}
		return choices[0]
	}
	for i, r := range choices {
		if r == current && i+1 < len(choices) {
			return choices[i+1]
		}
	}
	return ""
}
