// Package config loads atlas runtime settings.
//
// # Configuration Discovery
//
// Load resolves the file in this order:
//
//  1. An explicit path (the -config flag)
//  2. ~/.config/atlas/config.toml
//  3. Built-in defaults when the file does not exist
//
// Fields that are missing or blank in an existing file keep their defaults.
//
// # TOML Format
//
//	api_base = "https://restcountries.com/v3.1"
//	timeout_seconds = 10
//	requests_per_second = 4    # 0 disables pacing
//	cache_path = "~/.cache/atlas/countries.db"   # "off" disables the cache
//	log_path = "~/.local/state/atlas/atlas.log"
//	log_level = "info"         # debug, info, warn, error
//
// Tilde expansion is applied to every path and relative paths are made
// absolute.
//
// # Error Handling
//
// Load returns errors for unreadable files, invalid TOML, and values that
// cannot be used (a non-positive timeout, a negative rate, an api_base
// without a host, an unknown log level). A missing file is not an error.
package config
