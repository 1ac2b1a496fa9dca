// Package app provides the orchestration layer for the Pokédex application.
//
// # Overview
//
// This package wires together configuration, preferences, logging, the
// PokeAPI client, the query cache and the UI. It is the composition root
// where all dependencies are initialized and connected.
//
// # Startup
//
//  1. Load config from ~/.config/pokedex/config.toml (defaults when missing)
//  2. Load UI preferences (theme, last browsing mode)
//  3. Open the log file; the TUI owns the terminal so nothing logs to stderr
//  4. Build the HTTP client, the shared query.Cache and the browse.Catalog
//  5. Start the cache janitor goroutine
//  6. Start the TUI and block until the user exits or the context cancels
//
// # Mode Resolution
//
// The browsing mode comes from the first valid value of the -mode flag, the
// saved preference, then config. Unknown values fall through; the final
// default is infinite scroll.
//
// # Error Handling
//
// Fatal errors (returned from Build and Run):
//   - Config file present but unreadable or not valid TOML
//   - Invalid base URL
//   - Log file cannot be created
//
// Request failures are never fatal; they surface in the UI with a retry
// affordance.
package app
