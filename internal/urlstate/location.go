package urlstate

import (
	"net/url"
	"path"
	"strings"
)

const countryPrefix = "/country/"

// Entry is one navigable address: a path plus its query.
type Entry struct {
	Path  string
	Query url.Values
}

// Home returns the root entry with the given query.
func Home(q url.Values) Entry {
	return Entry{Path: "/", Query: q}
}

// CountryEntry returns the detail address for a country name.
func CountryEntry(name string) Entry {
	return Entry{Path: countryPrefix + name}
}

func (e Entry) String() string {
	return FormatLocation(e.Path, e.Query)
}

// RawQuery is the encoded query with keys sorted.
func (e Entry) RawQuery() string {
	if len(e.Query) == 0 {
		return ""
	}
	return e.Query.Encode()
}

// FormatLocation renders path and query the way the location bar shows them.
func FormatLocation(p string, q url.Values) string {
	if p == "" {
		p = "/"
	}
	if p != "/" {
		p = (&url.URL{Path: p}).EscapedPath()
	}
	if len(q) == 0 {
		return p
	}
	return p + "?" + q.Encode()
}

// ParseLocation accepts what a user might type or paste: "/?region=Asia",
// "?region=Asia", "region=Asia", "/country/Peru" or a full URL. Fragments
// are dropped and malformed query pairs are skipped.
func ParseLocation(raw string) Entry {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}

	var p, rawQuery string
	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return Home(url.Values{})
		}
		p, rawQuery = u.Path, u.RawQuery
	case strings.HasPrefix(raw, "?"):
		rawQuery = raw[1:]
	case !strings.HasPrefix(raw, "/") && strings.Contains(raw, "=") && !strings.Contains(raw, "/"):
		rawQuery = raw
	default:
		p, rawQuery, _ = strings.Cut(raw, "?")
		if unescaped, err := url.PathUnescape(p); err == nil {
			p = unescaped
		}
	}

	// ParseQuery keeps the pairs it could read even when it reports an error.
	q, _ := url.ParseQuery(rawQuery)
	return Entry{Path: cleanPath(p), Query: q}
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// RouteKind names the screens a location can address.
type RouteKind int

const (
	RouteHome RouteKind = iota
	RouteCountry
)

// Route is the screen an entry resolves to.
type Route struct {
	Kind    RouteKind
	Country string
}

// Route resolves the entry. Anything that is not "/" or "/country/{name}"
// falls back to home.
func (e Entry) Route() Route {
	if name, ok := strings.CutPrefix(e.Path, countryPrefix); ok && name != "" && !strings.Contains(name, "/") {
		return Route{Kind: RouteCountry, Country: name}
	}
	return Route{Kind: RouteHome}
}

// Canonical redirects unknown paths to "/" while keeping the query.
func (e Entry) Canonical() Entry {
	if e.Route().Kind == RouteHome {
		e.Path = "/"
	}
	if e.Query == nil {
		e.Query = url.Values{}
	}
	return e
}
