// Package config loads, normalizes, and validates vidmerge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the VIDMERGE_DATA_DIR environment
// fallback. Merge parameters in the file act as defaults that command-line
// flags override per invocation.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and validation errors that name the
// offending TOML key.
package config
