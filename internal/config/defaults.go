package config

import "mclogs/internal/reverse"

const (
	defaultConfigPath = "~/.config/mclogs/config.toml"
	projectConfigName = "mclogs.toml"
	defaultNamePrefix = "20"
	defaultEncoding   = "windows-1252"
	defaultChunkSize  = reverse.DefaultChunkSize
	defaultTerminator = "\n"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Logs: Logs{
			Extensions: []string{".log", ".gz"},
			NamePrefix: defaultNamePrefix,
			Encoding:   defaultEncoding,
		},
		Scan: Scan{
			ChunkSize:  defaultChunkSize,
			Terminator: defaultTerminator,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
