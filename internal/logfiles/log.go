package logfiles

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	DefaultEncoding   = "windows-1252"
	DefaultNamePrefix = "20"

	readLineBlock = 256
)

// DefaultExtensions lists the log suffixes recognized when none are configured.
var DefaultExtensions = []string{".log", ".gz"}

// ErrCorrupt marks a log whose bytes could not be read back, such as a
// truncated gzip archive.
var ErrCorrupt = errors.New("corrupt log")

// ErrDirectory marks a log directory that could not be listed.
var ErrDirectory = errors.New("read log directory")

// OpenError records which log could not be opened.
type OpenError struct {
	Name string
	Path string
	Err  error
}

func (e *OpenError) Error() string { return "open log " + e.Name + ": " + e.Err.Error() }

func (e *OpenError) Unwrap() error { return e.Err }

// Options selects and decodes log files.
type Options struct {
	Extensions []string
	NamePrefix string
	Encoding   string
}

func (o Options) withDefaults() Options {
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions
	}
	if strings.TrimSpace(o.Encoding) == "" {
		o.Encoding = DefaultEncoding
	}
	return o
}

// Matches reports whether a file name is a log under these options.
func (o Options) Matches(name string) bool {
	o = o.withDefaults()
	if !strings.HasPrefix(name, o.NamePrefix) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range o.Extensions {
		if strings.EqualFold(candidate, ext) {
			return true
		}
	}
	return false
}

// LookupEncoding resolves an encoding label. "ansi" is accepted as an alias for
// windows-1252.
func LookupEncoding(name string) (encoding.Encoding, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	switch label {
	case "", "ansi", "cp1252":
		label = DefaultEncoding
	case "utf8":
		label = "utf-8"
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported log encoding %q: %w", name, err)
	}
	return enc, nil
}

// Log is an open log file. It is an io.ReadSeeker over the stored bytes; text
// handed to callers is decoded with the configured encoding.
type Log struct {
	name    string
	path    string
	src     io.ReadSeeker
	closer  io.Closer
	decoder *encoding.Decoder
}

// Open opens the log at path. Gzip archives are inflated into memory; a failure
// while inflating is reported as ErrCorrupt. Failures are returned as *OpenError.
func Open(path string, opts Options) (*Log, error) {
	opts = opts.withDefaults()
	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Name: filepath.Base(path), Path: path, Err: err}
	}

	log := &Log{
		name:    filepath.Base(path),
		path:    path,
		decoder: enc.NewDecoder(),
	}

	if !strings.EqualFold(filepath.Ext(path), ".gz") {
		log.src = file
		log.closer = file
		return log, nil
	}

	defer file.Close()
	data, err := inflate(file)
	if err != nil {
		return nil, &OpenError{Name: log.name, Path: path, Err: fmt.Errorf("%w: %w", ErrCorrupt, err)}
	}
	log.src = bytes.NewReader(data)
	return log, nil
}

func inflate(r io.Reader) ([]byte, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Name returns the file name without its directory.
func (l *Log) Name() string { return l.name }

// Path returns the path the log was opened from.
func (l *Log) Path() string { return l.path }

func (l *Log) Read(p []byte) (int, error) { return l.src.Read(p) }

func (l *Log) Seek(offset int64, whence int) (int64, error) { return l.src.Seek(offset, whence) }

// Close releases the underlying file. It is safe to call more than once.
func (l *Log) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// Decode converts stored bytes to text. Invalid input becomes U+FFFD.
func (l *Log) Decode(b []byte) string {
	text, err := l.decoder.Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(text)
}

// ReadLine reads forward from the current position and returns the next line
// decoded and without its terminator. The position is left just past the
// terminator. io.EOF is returned when no bytes remain.
func (l *Log) ReadLine() (string, error) {
	start, err := l.src.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", fmt.Errorf("read position: %w", err)
	}

	var line []byte
	buf := make([]byte, readLineBlock)
	for {
		n, readErr := l.src.Read(buf)
		if idx := bytes.IndexByte(buf[:n], '\n'); idx >= 0 {
			line = append(line, buf[:idx+1]...)
			if _, err := l.src.Seek(start+int64(len(line)), io.SeekStart); err != nil {
				return "", fmt.Errorf("seek past line: %w", err)
			}
			return l.Decode(trimEOL(line)), nil
		}
		line = append(line, buf[:n]...)
		if errors.Is(readErr, io.EOF) {
			if len(line) == 0 {
				return "", io.EOF
			}
			return l.Decode(trimEOL(line)), nil
		}
		if readErr != nil {
			return "", fmt.Errorf("read line: %w", readErr)
		}
	}
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}
