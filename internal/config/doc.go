// Package config loads, normalizes, and validates promptalbum configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML or YAML files, and honours environment fallbacks
// for the source and target directories. The Config type centralizes every
// knob the CLI and workflow need, including the parser vocabulary, so word
// lists travel as explicit values instead of package globals.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
