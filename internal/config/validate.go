package config

import (
	"errors"
	"fmt"

	"mclogs/internal/logfiles"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogs(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLogs() error {
	if len(c.Logs.Extensions) == 0 {
		return errors.New("logs.extensions must list at least one suffix")
	}
	if _, err := logfiles.LookupEncoding(c.Logs.Encoding); err != nil {
		return fmt.Errorf("logs.encoding: %w", err)
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.ChunkSize < 0 {
		return fmt.Errorf("scan.chunk_size must be positive, got %d", c.Scan.ChunkSize)
	}
	if len(c.Scan.Terminator) > c.Scan.ChunkSize {
		return fmt.Errorf("scan.chunk_size (%d) must be at least the terminator length (%d)", c.Scan.ChunkSize, len(c.Scan.Terminator))
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.Limit < 0 {
		return fmt.Errorf("search.limit must be zero or positive, got %d", c.Search.Limit)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

// LogOptions returns the file selection options for the logfiles package.
func (c *Config) LogOptions() logfiles.Options {
	return logfiles.Options{
		Extensions: c.Logs.Extensions,
		NamePrefix: c.Logs.NamePrefix,
		Encoding:   c.Logs.Encoding,
	}
}
