// Package config loads and persists launcher settings from an optional YAML
// file. Absent file or fields fall back to built-in defaults, so a bare
// installation needs no configuration at all.
package config
