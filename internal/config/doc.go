// Package config loads the browser's TOML configuration.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/pokedex/config.toml
//  3. If the file doesn't exist, use defaults
//  4. Empty or invalid fields keep their defaults
//  5. POKEDEX_* environment variables override the result
//
// # TOML Format
//
//	base_url = "https://pokeapi.co/api/v2"
//	page_size = 20
//	mode = "infinite"            # or "pagination"
//	log_file = "~/.local/state/pokedex/pokedex.log"
//	log_level = "info"
//	request_timeout = "10s"
//	max_cache_entries = 2048
//	sweep_interval = "1m"
//
// Every field is optional. Tilde expansion is performed on paths.
//
// # Environment
//
//   - POKEDEX_BASE_URL
//   - POKEDEX_PAGE_SIZE
//   - POKEDEX_LOG_LEVEL
//   - POKEDEX_LOG_FILE
//
// The entry point loads a .env file from the working directory before Load
// runs, so these can also be set there.
//
// Missing config files are not an error.
package config
