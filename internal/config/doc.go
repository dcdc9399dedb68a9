// Package config loads evlog's settings.
//
// # Resolution Order
//
// Values are resolved from lowest to highest precedence:
//
//  1. Built-in defaults
//  2. The TOML file at ~/.config/evlog/config.toml (or an explicit path)
//  3. A .env file in the working directory, if present
//  4. EVLOG_* environment variables
//
// Command-line flags are applied on top by the caller. A missing config file
// is not an error.
//
// # Default Values
//
//   - store_dir: event-store (relative to the working directory)
//   - retention_days: 7
//   - http_bind: 127.0.0.1:7488
//   - log_level: warn
//
// # TOML Format
//
//	store_dir = "~/callcenter/event-store"
//	retention_days = 7
//	http_bind = "127.0.0.1:7488"
//	log_level = "info"
//	theme = "Nightfox"
//
// Empty or whitespace-only values fall back to defaults. Tilde expansion is
// performed on store_dir.
package config
