// Package config loads, normalizes, and validates mclogs configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes the log
// directories, file selection rules, scanner tuning, and logging knobs the CLI
// needs, so every command resolves them the same way.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a canonical encoding label, and clear validation errors.
package config
