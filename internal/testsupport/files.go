package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// WriteLog writes content to path, creating parent directories.
func WriteLog(t testing.TB, path, content string) {
	t.Helper()
	writeBytes(t, path, []byte(content))
}

// WriteGzipLog writes content gzip-compressed to path.
func WriteGzipLog(t testing.TB, path, content string) {
	t.Helper()
	writeBytes(t, path, Gzip(t, content))
}

// WriteCorruptGzip writes a gzip archive truncated halfway through its body.
func WriteCorruptGzip(t testing.TB, path, content string) {
	t.Helper()
	data := Gzip(t, content)
	writeBytes(t, path, data[:len(data)/2])
}

// Gzip compresses content in memory.
func Gzip(t testing.TB, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func writeBytes(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
