// Package config loads the lotwatch configuration file.
//
// # Configuration Discovery
//
// Load reads the given path, or ~/.config/lotwatch/config.toml when the path
// is empty. A missing file is not an error: every field has a default, so
// lotwatch runs out of the box against a local API.
//
// # Default Values
//
//   - api_url: http://127.0.0.1:5000
//   - per_page: 20
//   - poll_interval: 5 (seconds)
//   - request_timeout: 10 (seconds)
//   - log_file: ~/.local/state/lotwatch/lotwatch.log
//   - log_level: info
//
// Zero, negative and blank values fall back to the defaults.
//
// # TOML Format
//
//	api_url = "http://192.168.1.20:5000"
//	per_page = 50
//	poll_interval = 3
//	log_level = "debug"
//
// # Path Expansion
//
// The config path and log_file accept "~/" prefixes and relative paths; both
// are expanded to absolute paths.
package config
