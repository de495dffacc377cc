// Package config loads fitdeck configuration.
//
// # Client configuration
//
// The terminal client reads a TOML file, by default
// ~/.config/fitdeck/config.toml. Resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use the default path
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// Keys and defaults:
//
//	api_url        127.0.0.1:8460                      remote service base URL
//	token          (none)                              bearer token sent on every call
//	jwt_secret     (none)                              with user, mints a local token
//	jwt_issuer     fitdeck.local
//	user           (none)
//	poll_interval  30s                                 periodic full refresh
//	log_file       ~/.local/state/fitdeck/fitdeck.log
//	export_dir     ~                                   where data exports are written
//	metrics_addr   (disabled)                          Prometheus listener
//
// Without a token or a secret/user pair the client runs signed out: reads
// are empty and every write fails fast.
//
// All string values are trimmed and paths beginning with "~" are expanded.
// A malformed file is an error ("parse config: ..."); a missing one is not.
//
// # Server configuration
//
// fitserver is configured through environment variables (LoadServer):
// HTTP_ADDRESS, DATABASE_URL, JWT_SECRET, JWT_ISSUER, KAFKA_BROKERS,
// KAFKA_TOPIC and PHOTO_BASE_URL. Unset or empty variables take their
// local-development defaults.
package config
