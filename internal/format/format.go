// Package format renders country fields for display.
package format

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/five82/atlas/internal/restcountries"
)

const notAvailable = "N/A"

// Population formats a head count with thousands separators. NaN and
// infinities render as "0".
func Population(population float64) string {
	if math.IsNaN(population) || math.IsInf(population, 0) {
		return "0"
	}
	return humanize.Comma(int64(population))
}

// Currencies renders "Name (Symbol)" pairs ordered by currency code.
func Currencies(currencies map[string]restcountries.Currency) string {
	if len(currencies) == 0 {
		return notAvailable
	}
	parts := make([]string, 0, len(currencies))
	for _, code := range sortedKeys(currencies) {
		currency := currencies[code]
		parts = append(parts, fmt.Sprintf("%s (%s)", currency.Name, currency.Symbol))
	}
	return strings.Join(parts, ", ")
}

// Languages renders language names ordered by language code.
func Languages(languages map[string]string) string {
	if len(languages) == 0 {
		return notAvailable
	}
	parts := make([]string, 0, len(languages))
	for _, code := range sortedKeys(languages) {
		parts = append(parts, languages[code])
	}
	return strings.Join(parts, ", ")
}

// List joins values, or returns "N/A" when there are none.
func List(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return notAvailable
	}
	return strings.Join(cleaned, ", ")
}

// OrNA returns value, or "N/A" when it is blank.
func OrNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return notAvailable
	}
	return value
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
