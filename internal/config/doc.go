// Package config loads, normalizes, and validates mediamend configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: archive and sidecar locations, the workbench and library
// layout, ExifTool invocation, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths, canonical log formats, and clear validation
// errors.
package config
