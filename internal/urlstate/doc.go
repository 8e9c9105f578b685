// Package urlstate mirrors the filter state into a navigable location and
// back.
//
// A location looks like a web address: "/?search=ger&region=Europe" for the
// country list and "/country/Germany" for a detail screen. Only fields that
// differ from their default are encoded. Filter edits replace the current
// history entry; opening a country or typing a location pushes a new one.
// Back and forward walk the History, after which Synchronizer.Navigated
// parses the address into the state if, and only if, it differs.
package urlstate
