// Package state holds the country records atlas displays and their load
// status.
//
// # Overview
//
// The Store is where network loads meet UI rendering. The UI starts a load
// with Begin, a background command fetches and calls Complete, and the UI
// reads Snapshot on every render.
//
//	UI (Update):                  Loader (tea.Cmd):
//	┌─────────────────┐           ┌──────────────────────┐
//	│ gen := Begin(c) │──────────→│ FetchByRegion(...)   │
//	│                 │           │ Complete(gen, res)   │
//	│ Snapshot()      │←──────────│                      │
//	└─────────────────┘  (mutex)  └──────────────────────┘
//
// # Generations
//
// Switching regions quickly can leave several loads in flight. Every Begin
// returns a new Generation and only the newest one may complete; older
// results are dropped and logged at debug level. The last request made,
// not the last response received, decides what is shown.
//
// # Errors
//
// A failed load keeps the previous records and records the message, so the
// list does not go blank on a transient failure. When the loader found an
// offline copy in the cache it passes it with Cached set and the snapshot
// is marked Stale.
//
// # Copies
//
// Snapshot returns its own slice of records. Records are never modified in
// place; the filter engine only reorders copies.
//
// The zero Store is ready to use and reports StatusIdle with no records.
package state
