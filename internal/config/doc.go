// Package config loads, normalizes, and validates reprise configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LASTFM_API_KEY. The Config type centralizes every knob the daemon and CLI
// need: web-service credentials and retry policy, the outbound throttle
// bound, refresh job scheduling, and log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
