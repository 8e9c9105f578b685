package filter

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/five82/atlas/internal/restcountries"
)

// collationTag is the locale used to order country names.
var collationTag = language.English

// Apply derives the ordered view of records for st. It never fails and
// never modifies records: the region gate runs first, then the fuzzy
// search (which reorders by relevance), then a stable sort.
func Apply(records []restcountries.Country, st State) []restcountries.Country {
	st = st.Normalize()

	out := byRegion(records, st.Region)
	if query := strings.TrimSpace(st.Search); query != "" && len(out) > 0 {
		out = search(out, query)
	}
	sortRecords(out, st.SortBy, st.SortOrder)
	return out
}

// byRegion returns a fresh slice of the records whose region equals region
// exactly. An empty region keeps everything.
func byRegion(records []restcountries.Country, region string) []restcountries.Country {
	if region == "" {
		out := make([]restcountries.Country, len(records))
		copy(out, records)
		return out
	}
	out := make([]restcountries.Country, 0, len(records))
	for _, c := range records {
		if c.Region == region {
			out = append(out, c)
		}
	}
	return out
}

// sortRecords orders records in place. Descending negates the comparator,
// so equal elements keep their relative order in both directions.
func sortRecords(records []restcountries.Country, key SortKey, order SortOrder) {
	if len(records) < 2 {
		return
	}

	var compare func(a, b *restcountries.Country) int
	switch key {
	case SortByPopulation:
		compare = func(a, b *restcountries.Country) int {
			return cmp.Compare(a.Population, b.Population)
		}
	default:
		// Collators are not safe for concurrent use; one per call keeps
		// Apply reentrant.
		coll := collate.New(collationTag)
		compare = func(a, b *restcountries.Country) int {
			return coll.CompareString(a.Name.Common, b.Name.Common)
		}
	}

	sign := 1
	if order == Descending {
		sign = -1
	}
	slices.SortStableFunc(records, func(a, b restcountries.Country) int {
		return sign * compare(&a, &b)
	})
}
