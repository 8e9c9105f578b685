package filter

import (
	"math"
	"sort"
	"strings"

	"github.com/five82/atlas/internal/restcountries"
)

const (
	// matchThreshold is the worst score still treated as a match
	// (0 is perfect, 1 matches nothing).
	matchThreshold = 0.3
	// locationDistance is how far from the start of a field a match may
	// drift before the position penalty alone reaches 1.0.
	locationDistance = 100
	maxPatternRunes  = 32
	// epsilon stands in for a perfect field score so the weighted product
	// still ranks keys by weight.
	epsilon = 0x1p-52
)

type searchKey struct {
	name   string
	weight float64
	values func(c *restcountries.Country) []string
}

var searchKeys = []searchKey{
	{name: "name.common", weight: 0.4, values: func(c *restcountries.Country) []string {
		return []string{c.Name.Common}
	}},
	{name: "name.official", weight: 0.3, values: func(c *restcountries.Country) []string {
		return []string{c.Name.Official}
	}},
	{name: "capital", weight: 0.2, values: func(c *restcountries.Country) []string {
		return c.Capital
	}},
	{name: "code", weight: 0.1, values: func(c *restcountries.Country) []string {
		return []string{c.CCA3, c.CCA2}
	}},
}

type rankedMatch struct {
	index int
	score float64
}

// search keeps the records that approximately match query and orders them
// best match first. Equal scores keep their input order.
func search(records []restcountries.Country, query string) []restcountries.Country {
	pattern := []rune(strings.ToLower(query))
	if len(pattern) > maxPatternRunes {
		pattern = pattern[:maxPatternRunes]
	}

	matches := make([]rankedMatch, 0, len(records))
	for i := range records {
		if score, ok := recordScore(&records[i], pattern); ok {
			matches = append(matches, rankedMatch{index: i, score: score})
		}
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].score < matches[b].score
	})

	out := make([]restcountries.Country, len(matches))
	for i, m := range matches {
		out[i] = records[m.index]
	}
	return out
}

// recordScore combines the best score of each matching key as a product of
// score^weight. Keys that do not match are left out.
func recordScore(c *restcountries.Country, pattern []rune) (float64, bool) {
	total := 1.0
	matched := false
	for _, key := range searchKeys {
		best, ok := 1.0, false
		for _, value := range key.values(c) {
			if score, hit := fieldScore(pattern, value); hit && score < best {
				best, ok = score, true
			}
		}
		if !ok {
			continue
		}
		matched = true
		total *= math.Pow(math.Max(best, epsilon), key.weight)
	}
	return total, matched
}

// fieldScore finds the best approximate occurrence of pattern anywhere in
// text. Substitutions, insertions, deletions and adjacent transpositions
// each cost one error. The score is errors/len(pattern) plus a penalty for
// how far from the start the occurrence begins.
func fieldScore(pattern []rune, text string) (float64, bool) {
	t := []rune(strings.ToLower(text))
	m, n := len(pattern), len(t)
	if m == 0 || n == 0 {
		return 1, false
	}
	maxErrors := int(matchThreshold * float64(m))

	// Row i holds, for every end position j in text, the fewest edits that
	// turn pattern[:i] into some substring of text ending at j. Row 0 is
	// all zeros so an occurrence may start anywhere.
	prev2 := make([]int, n+1)
	prev := make([]int, n+1)
	cur := make([]int, n+1)
	for i := 1; i <= m; i++ {
		cur[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if pattern[i-1] == t[j-1] {
				cost = 0
			}
			best := prev[j-1] + cost
			if v := prev[j] + 1; v < best {
				best = v
			}
			if v := cur[j-1] + 1; v < best {
				best = v
			}
			if i > 1 && j > 1 && pattern[i-1] == t[j-2] && pattern[i-2] == t[j-1] {
				if v := prev2[j-2] + 1; v < best {
					best = v
				}
			}
			cur[j] = best
		}
		prev2, prev, cur = prev, cur, prev2
	}

	bestScore, found := 1.0, false
	for j := 1; j <= n; j++ {
		errs := prev[j]
		if errs > maxErrors {
			continue
		}
		start := max(j-m, 0)
		score := float64(errs)/float64(m) + float64(start)/locationDistance
		if score <= matchThreshold && score < bestScore {
			bestScore, found = score, true
		}
	}
	return bestScore, found
}
