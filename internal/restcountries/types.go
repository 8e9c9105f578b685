package restcountries

import (
	"sort"
	"strings"
)

// Regions lists the region names REST Countries reports.
var Regions = []string{"Africa", "Americas", "Antarctic", "Asia", "Europe", "Oceania"}

// Country mirrors the subset of the v3.1 country payload atlas requests.
type Country struct {
	Name       Name                `json:"name"`
	Population int64               `json:"population"`
	Region     string              `json:"region"`
	Subregion  string              `json:"subregion"`
	Capital    []string            `json:"capital,omitempty"`
	Currencies map[string]Currency `json:"currencies,omitempty"`
	Languages  map[string]string   `json:"languages,omitempty"`
	Borders    []string            `json:"borders,omitempty"`
	CCA2       string              `json:"cca2"`
	CCA3       string              `json:"cca3"`
}

// Name holds the common, official and native names of a country.
type Name struct {
	Common     string                `json:"common"`
	Official   string                `json:"official"`
	NativeName map[string]NativeName `json:"nativeName,omitempty"`
}

// NativeName is a name in one of the country's own languages.
type NativeName struct {
	Official string `json:"official"`
	Common   string `json:"common"`
}

// Currency describes a currency entry keyed by its ISO code.
type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// PrimaryCapital returns the first listed capital or an empty string.
func (c Country) PrimaryCapital() string {
	for _, capital := range c.Capital {
		if trimmed := strings.TrimSpace(capital); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Code returns the three letter code, falling back to the two letter one.
func (c Country) Code() string {
	if c.CCA3 != "" {
		return c.CCA3
	}
	return c.CCA2
}

// HasCode reports whether code matches cca2 or cca3 exactly.
func (c Country) HasCode(code string) bool {
	if code == "" {
		return false
	}
	return c.CCA2 == code || c.CCA3 == code
}

// NativeNames returns the native common names ordered by language code.
func (c Country) NativeNames() []string {
	if len(c.Name.NativeName) == 0 {
		return nil
	}
	codes := make([]string, 0, len(c.Name.NativeName))
	for code := range c.Name.NativeName {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	seen := make(map[string]struct{}, len(codes))
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		name := strings.TrimSpace(c.Name.NativeName[code].Common)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
