package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSearchCommandPrintsMatches(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"search", "JOINED the game"}, env.configPath, "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	want := "[10:00:00] [Server thread/INFO]: Steve joined the game\n" +
		"[23:50:00] [Server thread/INFO]: Alex joined the game\n"
	if out != want {
		t.Fatalf("search output = %q, want %q", out, want)
	}
}

func TestSearchCommandCaptureGroupAndLimit(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"search", `(\w+) left the game`, "--limit", "1", env.logsDir}, env.configPath, "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if out != "Steve\n" {
		t.Fatalf("search output = %q", out)
	}
}

func TestSearchCommandWritesOutputFile(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(t.TempDir(), "matches.txt")

	out, _, err := runCLI(t, []string{"search", "<(\\w+)>", "--output", target}, env.configPath, "")
	if err != nil {
		t.Fatalf("search --output: %v", err)
	}
	requireContains(t, out, "[OK] Wrote 1 matches to "+target)

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "Steve\n" {
		t.Fatalf("output file = %q", data)
	}
	if _, err := os.Stat(target + ".lock"); err != nil {
		t.Fatalf("expected lock file next to output: %v", err)
	}
}

func TestSearchCommandHonorsConfiguredLimit(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Search.Limit = 1
	data, err := env.cfg.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(env.configPath, data, 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	out, _, err := runCLI(t, []string{"search", "the game"}, env.configPath, "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected a single match, got %q", out)
	}

	out, _, err = runCLI(t, []string{"search", "the game", "--limit", "0"}, env.configPath, "")
	if err != nil {
		t.Fatalf("search --limit 0: %v", err)
	}
	if strings.Count(out, "\n") != 4 {
		t.Fatalf("expected four matches, got %q", out)
	}
}

func TestSearchCommandErrors(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"search"}, env.configPath, ""); err == nil {
		t.Fatal("expected error without a pattern")
	}
	if _, _, err := runCLI(t, []string{"search", "(broken"}, env.configPath, ""); err == nil {
		t.Fatal("expected error for an invalid pattern")
	}
	if _, _, err := runCLI(t, []string{"search", "x", filepath.Join(env.logsDir, "missing")}, env.configPath, ""); err == nil {
		t.Fatal("expected error for a missing folder")
	}
}
