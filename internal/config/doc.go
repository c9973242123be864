// Package config loads, normalizes, and validates binmerge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a .env file from the working directory
// and honours BINMERGE_* environment overrides.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical encodings and clear validation errors.
package config
