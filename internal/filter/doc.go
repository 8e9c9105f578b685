// Package filter holds the filter state and the pure engine that turns the
// full record set into the ordered view shown to the user.
//
// # State
//
// State carries the four user choices:
//
//   - Search: free text, stored exactly as typed
//   - Region: exact region gate, "" for every region
//   - SortBy: "name" (default) or "population"
//   - SortOrder: "asc" (default) or "desc"
//
// The mutators (SetSearch, SetRegion, SetSort, Clear) only change the value.
// They return a Refresh describing whether the record store needs new data;
// fetching is left to the caller.
//
// # Pipeline
//
// Apply runs three steps in a fixed order:
//
//  1. Region gate: keep records whose Region equals State.Region exactly.
//  2. Fuzzy search: when the trimmed search text is not empty, keep records
//     that approximately match it and order them best match first.
//  3. Stable sort by the chosen key. Names use English collation, population
//     compares numerically, and "desc" negates the comparator.
//
// The region gate runs first because it is cheap and shrinks the input of
// the search. A region without records yields an empty view whatever the
// search text says.
//
// # Fuzzy matching
//
// Four keys are scored, with weights that sum to one:
//
//	name.common    0.4
//	name.official  0.3
//	capital        0.2
//	code           0.1  (cca3 and cca2)
//
// A key scores errors/len(pattern) for its best approximate occurrence,
// plus 0.01 for every rune the occurrence starts away from the beginning of
// the field. Scores above 0.3 do not match. A record's relevance is the
// product of score^weight over its matching keys, so a typo such as
// "Grmany" still finds "Germany" and a hit on the common name outranks a hit
// on the capital.
//
// Apply is reentrant and allocates its output; record sets are small (a few
// hundred entries) so the view is recomputed on every change.
package filter
