package filter

import "fmt"

// SortKey selects the field the engine orders by.
type SortKey string

// SortOrder selects the direction of the sort.
type SortOrder string

const (
	SortByName       SortKey = "name"
	SortByPopulation SortKey = "population"

	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortKey maps a raw value to a SortKey. Unknown values yield the
// default key and ok=false.
func ParseSortKey(raw string) (SortKey, bool) {
	switch SortKey(raw) {
	case SortByName, SortByPopulation:
		return SortKey(raw), true
	default:
		return SortByName, false
	}
}

// ParseSortOrder maps a raw value to a SortOrder. Unknown values yield the
// default order and ok=false.
func ParseSortOrder(raw string) (SortOrder, bool) {
	switch SortOrder(raw) {
	case Ascending, Descending:
		return SortOrder(raw), true
	default:
		return Ascending, false
	}
}

// Toggle returns the other sort key.
func (k SortKey) Toggle() SortKey {
	if k == SortByPopulation {
		return SortByName
	}
	return SortByPopulation
}

// Toggle returns the opposite direction.
func (o SortOrder) Toggle() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// State is what the user wants to see: search text, region gate and sort.
type State struct {
	Search    string
	Region    string
	SortBy    SortKey
	SortOrder SortOrder
}

// Default returns the state every session starts with.
func Default() State {
	return State{SortBy: SortByName, SortOrder: Ascending}
}

// Normalize fills missing or invalid enum fields with their defaults.
func (s State) Normalize() State {
	s.SortBy, _ = ParseSortKey(string(s.SortBy))
	s.SortOrder, _ = ParseSortOrder(string(s.SortOrder))
	return s
}

// IsDefault reports whether every field holds its default.
func (s State) IsDefault() bool {
	return s.Normalize() == Default()
}

// Equal compares all four fields after normalisation.
func (s State) Equal(other State) bool {
	return s.Normalize() == other.Normalize()
}

func (s State) String() string {
	return fmt.Sprintf("search=%q region=%q sort=%s/%s", s.Search, s.Region, s.SortBy, s.SortOrder)
}

// Refresh tells the owner of the record store whether its records must be
// repopulated, and for which region ("" means every country).
type Refresh struct {
	Needed bool
	Region string
}

// SetSearch replaces the search text as typed. Trimming happens in Apply.
func (s *State) SetSearch(text string) Refresh {
	s.Search = text
	return Refresh{}
}

// SetRegion replaces the region gate. A changed region needs fresh records.
func (s *State) SetRegion(region string) Refresh {
	changed := s.Region != region
	s.Region = region
	return Refresh{Needed: changed, Region: region}
}

// SetSort replaces key and order together. An empty order means ascending.
func (s *State) SetSort(key SortKey, order SortOrder) Refresh {
	if order == "" {
		order = Ascending
	}
	s.SortBy, _ = ParseSortKey(string(key))
	s.SortOrder, _ = ParseSortOrder(string(order))
	return Refresh{}
}

// Clear resets every field and asks for the full record set.
func (s *State) Clear() Refresh {
	*s = Default()
	return Refresh{Needed: true}
}
