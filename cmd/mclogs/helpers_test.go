package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"mclogs/internal/config"
	"mclogs/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	logsDir    string
	homeDir    string
}

const (
	firstSession  = "[10:00:00] [Server thread/INFO]: Steve joined the game\r\n[10:30:00] [Server thread/INFO]: <Steve> hello there\r\n[11:15:30] [Server thread/INFO]: Steve left the game\r\n"
	secondSession = "[23:50:00] [Server thread/INFO]: Alex joined the game\n[00:10:00] [Server thread/INFO]: Alex left the game\n"
)

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	homeDir := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	logsDir := testsupport.LogsDir(cfg)
	testsupport.WriteLog(t, filepath.Join(logsDir, "2024-01-01-1.log"), firstSession)
	testsupport.WriteGzipLog(t, filepath.Join(logsDir, "2024-01-02-1.log.gz"), secondSession)
	testsupport.WriteLog(t, filepath.Join(logsDir, "latest.log"), "[12:00:00] not a dated log\n")

	return &cliTestEnv{
		cfg:        cfg,
		configPath: testsupport.WriteConfig(t, cfg),
		logsDir:    logsDir,
		homeDir:    homeDir,
	}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}

// requireLinuxDefaults skips tests that place logs in the HOME-based default
// folder, which only Linux derives from $HOME alone.
func requireLinuxDefaults(t *testing.T) {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skipf("default logs folder is not under $HOME/.minecraft on %s", runtime.GOOS)
	}
}
