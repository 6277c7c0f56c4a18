package search

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// ErrOutputLocked is returned when another run holds the output file.
var ErrOutputLocked = errors.New("search output is in use by another run")

// Output is a search results file held under an exclusive lock on
// "<path>.lock" until Close.
type Output struct {
	path string
	lock *flock.Flock
	file *os.File
	buf  *bufio.Writer
}

// OpenOutput locks and truncates the file at path.
func OpenOutput(path string) (*Output, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, path)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open search output: %w", err)
	}
	return &Output{path: path, lock: lock, file: file, buf: bufio.NewWriter(file)}, nil
}

// Path returns the results file location.
func (o *Output) Path() string { return o.path }

func (o *Output) Write(p []byte) (int, error) {
	return o.buf.Write(p)
}

// Close flushes pending results, closes the file, and releases the lock.
func (o *Output) Close() error {
	if o.file == nil {
		return nil
	}
	err := o.buf.Flush()
	if cerr := o.file.Close(); err == nil {
		err = cerr
	}
	o.file = nil
	if uerr := o.lock.Unlock(); err == nil && uerr != nil {
		err = fmt.Errorf("release output lock: %w", uerr)
	}
	return err
}
