// Package app is the composition root of atlas.
//
// # Overview
//
// Run loads configuration, opens the log file and the offline cache, builds
// the REST Countries client, and hands everything to the UI:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()            ~/.config/atlas/config.toml
//	       ├─────> logging.Init()           file logger
//	       ├─────> prefs.Load()             saved theme, else terminal background
//	       ├─────> restcountries.NewClient  paced HTTP client
//	       ├─────> cache.Open()             optional SQLite offline copy
//	       ├─────> NewLoader()              fetch → cache → store
//	       └─────> ui.Run()                 blocks until quit
//
// # Loading
//
// The UI owns the decision to load: it calls store.Begin on its own event
// loop and runs Loader.Load in a command. Load retries transient failures
// with exponential backoff (a 404 is never retried), writes successful
// results to the cache, and falls back to the cached copy when every
// attempt failed. Results are tagged with the generation Begin returned,
// so a slow response for an old region cannot replace a newer one.
//
// # Error Handling
//
// Configuration, logging and client construction errors abort Run. A cache
// that cannot be opened is logged and skipped. Fetch errors never abort;
// they end up in the store snapshot for the UI to show.
package app
