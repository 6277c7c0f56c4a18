package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mclogs/internal/config"
	"mclogs/internal/logfiles"
	"mclogs/internal/logging"
	"mclogs/internal/reverse"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	runID        string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		runID:        logging.NewRunID(),
	}
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// ensureLogger builds the invocation's logger on w the first time it is needed.
func (c *commandContext) ensureLogger(w io.Writer) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			override := *cfg
			override.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
			cfg = &override
		}
		logger, err := logging.NewFromConfig(cfg, w, c.runID)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) scanOptions(chunkOverride int) reverse.Options {
	cfg, _ := c.ensureConfig()
	opts := reverse.Options{}
	if cfg != nil {
		opts.ChunkSize = cfg.Scan.ChunkSize
	}
	if chunkOverride > 0 {
		opts.ChunkSize = chunkOverride
	}
	return opts
}

func (c *commandContext) logOptions() logfiles.Options {
	cfg, _ := c.ensureConfig()
	if cfg == nil {
		return logfiles.Options{NamePrefix: logfiles.DefaultNamePrefix}
	}
	return cfg.LogOptions()
}

// dirSelection gathers the ways a command can be told where logs live.
type dirSelection struct {
	globs string
	auto  bool
}

func (s *dirSelection) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.globs, "glob", "g", "", "Pipe-separated globs selecting log folders (** matches any depth)")
	cmd.Flags().BoolVar(&s.auto, "auto", false, "Use the launcher's default logs folder")
}

var errNoDefaultDir = errors.New("could not automatically locate your .minecraft/logs folder; pass a path or --glob")

// resolveDirs returns the directories to scan: explicit paths, then glob
// matches, then the default folder when requested or when nothing else was
// given and the config names no directories.
func (c *commandContext) resolveDirs(paths []string, sel dirSelection) ([]string, error) {
	var dirs []string
	for _, p := range paths {
		expanded, err := config.ExpandPath(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		if expanded != "" {
			dirs = append(dirs, expanded)
		}
	}

	if strings.TrimSpace(sel.globs) != "" {
		matched, err := logfiles.ExpandGlobs(logfiles.SplitList(sel.globs))
		if err != nil {
			return nil, err
		}
		if len(matched) == 0 {
			return nil, fmt.Errorf("glob %q matched no folders", sel.globs)
		}
		dirs = append(dirs, matched...)
	}

	if !sel.auto && len(dirs) == 0 {
		if cfg, _ := c.ensureConfig(); cfg != nil {
			dirs = append(dirs, cfg.Logs.Dirs...)
		}
	}
	if sel.auto || len(dirs) == 0 {
		dir, err := defaultLogsDir()
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

func defaultLogsDir() (string, error) {
	dir, err := logfiles.DefaultDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", errNoDefaultDir, err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", errNoDefaultDir
	}
	return dir, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
