package search_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mclogs/internal/logfiles"
	"mclogs/internal/search"
	"mclogs/internal/testsupport"
)

func writeLogs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testsupport.WriteLog(t, filepath.Join(dir, "2024-01-01-1.log"),
		"[10:00:00] [Server thread/INFO]: Steve joined the game\r\n"+
			"[10:05:00] [Server thread/INFO]: <Steve> hello\r\n"+
			"[10:09:00] [Server thread/INFO]: Steve left the game\r\n")
	testsupport.WriteGzipLog(t, filepath.Join(dir, "2024-01-02-1.log.gz"),
		"[11:00:00] [Server thread/INFO]: Alex joined the game\n"+
			"[11:30:00] [Server thread/INFO]: <Alex> caf\xe9\n")
	testsupport.WriteLog(t, filepath.Join(dir, "latest.log"), "[12:00:00] Herobrine joined the game\n")
	return dir
}

func TestRunPrintsWholeLines(t *testing.T) {
	dir := writeLogs(t)
	re, err := search.Compile("JOINED THE GAME")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var out bytes.Buffer
	n, err := search.Searcher{Pattern: re}.Run(context.Background(), []string{dir}, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "[10:00:00] [Server thread/INFO]: Steve joined the game\n" +
		"[11:00:00] [Server thread/INFO]: Alex joined the game\n"
	if n != 2 || out.String() != want {
		t.Fatalf("Run = %d, %q; want 2, %q", n, out.String(), want)
	}
}

func TestRunPrintsFirstCaptureGroup(t *testing.T) {
	dir := writeLogs(t)
	re, err := search.Compile(`<(\w+)> (.*)`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var out bytes.Buffer
	n, err := search.Searcher{Pattern: re}.Run(context.Background(), []string{dir}, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 2 || out.String() != "Steve\nAlex\n" {
		t.Fatalf("Run = %d, %q", n, out.String())
	}
}

func TestRunSkipsMatchesWithoutFirstGroup(t *testing.T) {
	dir := writeLogs(t)
	re, err := search.Compile(`(steve)? joined`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var out bytes.Buffer
	n, err := search.Searcher{Pattern: re}.Run(context.Background(), []string{dir}, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 1 || out.String() != "Steve\n" {
		t.Fatalf("Run = %d, %q; want 1, %q", n, out.String(), "Steve\n")
	}
}

func TestRunDecodesLogEncoding(t *testing.T) {
	dir := writeLogs(t)
	re, err := search.Compile(`<alex> (.*)`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	var out bytes.Buffer
	if _, err := (search.Searcher{Pattern: re}).Run(context.Background(), []string{dir}, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "café\n" {
		t.Fatalf("expected windows-1252 decoding, got %q", out.String())
	}
}

func TestRunStopsAtLimitAcrossDirectories(t *testing.T) {
	first := writeLogs(t)
	second := writeLogs(t)
	re, err := search.Compile("the game")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var out bytes.Buffer
	n, err := search.Searcher{Pattern: re, Limit: 4}.Run(context.Background(), []string{first, second}, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 4 || strings.Count(out.String(), "\n") != 4 {
		t.Fatalf("Run = %d, %q", n, out.String())
	}
	if !strings.HasSuffix(out.String(), "Steve joined the game\n") {
		t.Fatalf("expected the fourth match to come from the second directory, got %q", out.String())
	}
}

func TestRunSkipsCorruptLogs(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteCorruptGzip(t, filepath.Join(dir, "2024-01-01-1.log.gz"),
		"[10:00:00] a long enough line to make the archive worth truncating, needle\n")
	testsupport.WriteLog(t, filepath.Join(dir, "2024-01-02-1.log"), "[10:00:00] needle\n")

	re, _ := search.Compile("needle")
	var out bytes.Buffer
	n, err := search.Searcher{Pattern: re}.Run(context.Background(), []string{dir}, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 1 {
		t.Fatalf("matches = %d, want 1", n)
	}
}

func TestRunMissingDirectory(t *testing.T) {
	re, _ := search.Compile("x")
	_, err := search.Searcher{Pattern: re}.Run(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, &bytes.Buffer{})
	if !errors.Is(err, logfiles.ErrDirectory) {
		t.Fatalf("expected ErrDirectory, got %v", err)
	}
}

func TestRunRequiresPattern(t *testing.T) {
	if _, err := (search.Searcher{}).Run(context.Background(), nil, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for nil pattern")
	}
}

func TestCompileRejectsInvalidPattern(t *testing.T) {
	if _, err := search.Compile("(unclosed"); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestOutputWritesAndLocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	if err := os.WriteFile(path, []byte("stale\n"), 0o644); err != nil {
		t.Fatalf("seed output: %v", err)
	}

	out, err := search.OpenOutput(path)
	if err != nil {
		t.Fatalf("OpenOutput: %v", err)
	}
	if _, err := search.OpenOutput(path); !errors.Is(err, search.ErrOutputLocked) {
		t.Fatalf("expected ErrOutputLocked while held, got %v", err)
	}

	dir := writeLogs(t)
	re, _ := search.Compile("left the game")
	if _, err := (search.Searcher{Pattern: re}).Run(context.Background(), []string{dir}, out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "[10:09:00] [Server thread/INFO]: Steve left the game\n" {
		t.Fatalf("unexpected output %q", data)
	}

	again, err := search.OpenOutput(path)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	_ = again.Close()
}
