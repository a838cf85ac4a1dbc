// Package config loads, normalizes, and validates callwatch configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from the standard config location or an
// explicit path. The Config type centralizes every knob the daemon and CLI
// need: the watched directory, the record database path, worker pool sizing,
// and log routing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extensions, and clear validation errors.
package config
