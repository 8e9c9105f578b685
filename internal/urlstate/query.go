package urlstate

import (
	"net/url"

	"github.com/five82/atlas/internal/filter"
)

// Query keys recognised in a location.
const (
	KeySearch    = "search"
	KeyRegion    = "region"
	KeySortBy    = "sortBy"
	KeySortOrder = "sortOrder"
)

// Encode builds the query for st, omitting every field that holds its
// default so addresses stay short.
func Encode(st filter.State) url.Values {
	st = st.Normalize()
	def := filter.Default()

	q := url.Values{}
	if st.Search != def.Search {
		q.Set(KeySearch, st.Search)
	}
	if st.Region != def.Region {
		q.Set(KeyRegion, st.Region)
	}
	if st.SortBy != def.SortBy {
		q.Set(KeySortBy, string(st.SortBy))
	}
	if st.SortOrder != def.SortOrder {
		q.Set(KeySortOrder, string(st.SortOrder))
	}
	return q
}

// Parse turns a query into a complete state. Missing, empty and
// unrecognised values take the default; unknown keys are ignored.
func Parse(q url.Values) filter.State {
	st := filter.Default()
	st.Search = q.Get(KeySearch)
	st.Region = q.Get(KeyRegion)
	if key, ok := filter.ParseSortKey(q.Get(KeySortBy)); ok {
		st.SortBy = key
	}
	if order, ok := filter.ParseSortOrder(q.Get(KeySortOrder)); ok {
		st.SortOrder = order
	}
	return st
}
