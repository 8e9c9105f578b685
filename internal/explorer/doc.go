// Package explorer is the surface the UI talks to. It owns the filter state,
// exposes the derived country view, and turns navigation into refresh
// signals for whoever owns the records.
package explorer
