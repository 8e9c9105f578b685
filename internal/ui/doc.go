// Package ui provides the terminal interface for atlas.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model is the single root model; it owns
// the explorer (filter state plus navigation history), reads record
// snapshots from state.Store, and asks a Loader for network work through
// tea.Cmd functions so the event loop never blocks.
//
// # Package Structure
//
//   - app.go: Model, Update routing, load and route commands, Run
//   - keys.go: key bindings
//   - header.go: header, filter bar and command bar
//   - table.go: country table, selection and scrolling
//   - detail.go: country screen rendered into a viewport
//   - help.go: keyboard shortcut overlay
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Screens
//
// The current location decides the screen. "/" with an optional query
// shows the country table; "/country/{name}" shows one country with its
// neighbours. Any other path falls back to the table.
//
// # Event Flow
//
//  1. New mounts the starting location and begins the first load
//  2. Filter edits replace the current history entry and may start a load
//  3. Opening a country, ":" locations, "[" and "]" move through history
//  4. loadedMsg, countryMsg and bordersMsg carry results back to Update
//  5. Results for an older request are dropped by the store
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:  ctx,
//		Store:    store,
//		Explorer: explorer.New("/?region=Europe"),
//		Loader:   loader,
//		Theme:    prefs.ThemeDark,
//	})
package ui
