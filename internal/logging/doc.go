// Package logging provides the process-wide file logger. Call Init once at
// startup; the helpers are safe to call before that and do nothing.
package logging
