package urlstate

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/five82/atlas/internal/filter"
)

func TestEncodeDefaultIsEmpty(t *testing.T) {
	assert.Empty(t, Encode(filter.Default()))
	assert.Empty(t, Encode(filter.State{}))
}

func TestEncodeOnlyNonDefaultFields(t *testing.T) {
	q := Encode(filter.State{Region: "Europe", SortBy: filter.SortByPopulation, SortOrder: filter.Ascending})
	assert.Equal(t, url.Values{
		KeyRegion: {"Europe"},
		KeySortBy: {"population"},
	}, q)
	assert.Equal(t, "region=Europe&sortBy=population", q.Encode())
}

func TestEncodeKeepsSearchAsTyped(t *testing.T) {
	q := Encode(filter.State{Search: " new zealand "})
	assert.Equal(t, " new zealand ", q.Get(KeySearch))
}

func TestParse(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  filter.State
	}{
		{"empty", "", filter.Default()},
		{"all fields", "search=ger&region=Europe&sortBy=population&sortOrder=desc",
			filter.State{Search: "ger", Region: "Europe", SortBy: filter.SortByPopulation, SortOrder: filter.Descending}},
		{"invalid sortBy", "sortBy=area", filter.Default()},
		{"invalid sortOrder", "sortBy=population&sortOrder=sideways",
			filter.State{SortBy: filter.SortByPopulation, SortOrder: filter.Ascending}},
		{"empty values", "search=&region=&sortBy=&sortOrder=", filter.Default()},
		{"unknown keys", "page=2&region=Asia", filter.State{Region: "Asia", SortBy: filter.SortByName, SortOrder: filter.Ascending}},
		{"escaped", "search=c%C3%B4te+d", filter.State{Search: "côte d", SortBy: filter.SortByName, SortOrder: filter.Ascending}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, Parse(q))
		})
	}
}

func TestParseFirstValueWins(t *testing.T) {
	st := Parse(url.Values{KeyRegion: {"Asia", "Europe"}})
	assert.Equal(t, "Asia", st.Region)
}

func TestRoundTripAddressStateAddress(t *testing.T) {
	for _, raw := range []string{
		"",
		"region=Europe",
		"search=ger&sortOrder=desc",
		"region=Americas&search=per&sortBy=population&sortOrder=desc",
	} {
		q, _ := url.ParseQuery(raw)
		assert.Equal(t, raw, Encode(Parse(q)).Encode(), raw)
	}
}

func TestRoundTripStateAddressState(t *testing.T) {
	st := filter.State{Search: "a&b=c", Region: "Europe", SortBy: filter.SortByPopulation, SortOrder: filter.Descending}
	assert.Equal(t, st, Parse(Encode(st)))
}
