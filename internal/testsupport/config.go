package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"mclogs/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose single log directory is a fresh temp
// directory. The directory is created; it starts empty.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	logsDir := filepath.Join(base, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		t.Fatalf("mkdir logs dir: %v", err)
	}

	cfgVal := config.Default()
	cfgVal.Logs.Dirs = []string{logsDir}
	cfgVal.Logging.Level = "debug"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithChunkSize overrides the scanner chunk size.
func WithChunkSize(size int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.ChunkSize = size
	}
}

// WithSearchLimit overrides the search match limit.
func WithSearchLimit(limit int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Search.Limit = limit
	}
}

// WithExtraLogDir adds another log directory under the temp root.
func WithExtraLogDir(name string) ConfigOption {
	return func(b *configBuilder) {
		dir := filepath.Join(b.baseDir, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			b.t.Fatalf("mkdir %s: %v", name, err)
		}
		b.cfg.Logs.Dirs = append(b.cfg.Logs.Dirs, dir)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Logs.Dirs[0])
}

// LogsDir returns the primary log directory of the generated config.
func LogsDir(cfg *config.Config) string {
	return cfg.Logs.Dirs[0]
}

// WriteConfig encodes cfg as TOML next to its log directories and returns the path.
func WriteConfig(t testing.TB, cfg *config.Config) string {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(BaseDir(cfg), "mclogs.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
