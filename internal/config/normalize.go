package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeLogs(); err != nil {
		return err
	}
	c.normalizeScan()
	if err := c.normalizeSearch(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeLogs() error {
	dirs := make([]string, 0, len(c.Logs.Dirs))
	for i, dir := range c.Logs.Dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		expanded, err := expandPath(strings.TrimSpace(dir))
		if err != nil {
			return fmt.Errorf("logs.dirs[%d]: %w", i, err)
		}
		dirs = append(dirs, expanded)
	}
	c.Logs.Dirs = dirs

	exts := make([]string, 0, len(c.Logs.Extensions))
	for _, ext := range c.Logs.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	c.Logs.Extensions = exts

	c.Logs.Encoding = strings.ToLower(strings.TrimSpace(c.Logs.Encoding))
	if c.Logs.Encoding == "" || c.Logs.Encoding == "ansi" {
		c.Logs.Encoding = defaultEncoding
	}
	return nil
}

func (c *Config) normalizeScan() {
	if c.Scan.ChunkSize == 0 {
		c.Scan.ChunkSize = defaultChunkSize
	}
	if c.Scan.Terminator == "" {
		c.Scan.Terminator = defaultTerminator
	}
}

func (c *Config) normalizeSearch() error {
	output := strings.TrimSpace(c.Search.Output)
	if output == "" {
		c.Search.Output = ""
		return nil
	}
	expanded, err := expandPath(output)
	if err != nil {
		return fmt.Errorf("search.output: %w", err)
	}
	c.Search.Output = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
