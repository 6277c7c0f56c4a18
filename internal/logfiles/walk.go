package logfiles

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
)

// Walk yields the logs in dir in file name order. Entries that fail to open
// are yielded as errors and the walk continues. Each log is closed once the
// loop body that received it returns, so callers must not keep it.
//
// The sequence reads the directory afresh every time it is ranged over.
func Walk(dir string, opts Options) iter.Seq2[*Log, error] {
	return func(yield func(*Log, error) bool) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			yield(nil, fmt.Errorf("%w: %w", ErrDirectory, err))
			return
		}
		for _, entry := range entries {
			if entry.IsDir() || !opts.Matches(entry.Name()) {
				continue
			}
			log, err := Open(filepath.Join(dir, entry.Name()), opts)
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			more := yield(log, nil)
			_ = log.Close()
			if !more {
				return
			}
		}
	}
}
