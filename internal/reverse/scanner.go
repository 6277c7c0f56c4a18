package reverse

import (
	"errors"
	"fmt"
	"io"
)

// DefaultChunkSize is used when Options.ChunkSize is zero.
const DefaultChunkSize = 32

var (
	// ErrContract is wrapped by every error reported for invalid arguments.
	// Such errors are returned before the stream is touched.
	ErrContract = errors.New("reverse scan contract violation")

	ErrNilSource      = fmt.Errorf("%w: nil source", ErrContract)
	ErrNilDelimiter   = fmt.Errorf("%w: nil delimiter", ErrContract)
	ErrEmptyDelimiter = fmt.Errorf("%w: delimiter cannot match any text", ErrContract)
	ErrInvalidOptions = fmt.Errorf("%w: invalid options", ErrContract)
	ErrChunkTooSmall  = fmt.Errorf("%w: chunk size shorter than delimiter", ErrContract)
)

// Options tunes a backward scan.
type Options struct {
	// ChunkSize is the number of bytes read per backward step. It must be at
	// least the longest possible delimiter match.
	ChunkSize int
	// Skip is the number of trailing occurrences passed over before the next
	// one is accepted. Zero selects the last occurrence.
	Skip int
	// Trim shifts the extraction start relative to the occurrence. Use the
	// delimiter length to drop it, or a negative value to keep preceding bytes.
	Trim int
}

// Match is a successful backward scan.
type Match struct {
	// Offset is the absolute position of the accepted occurrence.
	Offset int64
	// Cut is the absolute position Text starts at (Offset + Trim, clamped).
	Cut int64
	// Text runs from Cut to the end of the stream as it stood when the scan began.
	Text []byte
}

// ScanBackward walks src from its end toward its start and returns the text
// following the (opts.Skip+1)-th occurrence of delim counted from the end.
// The boolean is false when fewer occurrences exist. The read position of src
// is the same on return as on entry, whatever the outcome.
func ScanBackward(src io.ReadSeeker, delim Delimiter, opts Options) (match Match, found bool, err error) {
	if err := checkContract(src, delim, &opts); err != nil {
		return Match{}, false, err
	}

	restore, err := preserve(src)
	if err != nil {
		return Match{}, false, err
	}
	defer restore(&err)

	length, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return Match{}, false, fmt.Errorf("seek to end: %w", err)
	}

	chunk := int64(opts.ChunkSize)
	width := int64(delim.MaxLen())
	picks := tally{remaining: opts.Skip, bound: length}
	var previous []byte
	window := make([]byte, 0, 2*opts.ChunkSize)

	for cursor := length; cursor > 0; {
		next := max(cursor-chunk, 0)
		head, err := readAt(src, next, cursor-next)
		if err != nil {
			return Match{}, false, err
		}

		// The earlier chunk goes first so an occurrence running into the
		// previously read chunk is complete within the window.
		window = append(append(window[:0], head...), previous...)

		hits := occurrences(delim, window, len(head), next)
		for i := len(hits) - 1; i >= 0; i-- {
			if target, ok := picks.offer(hits[i]); ok {
				return extract(src, target, opts.Trim, length)
			}
		}

		previous = head
		cursor = next

		// Nothing starting before next can reach the held occurrence.
		if picks.held && width != Unbounded && next+width <= picks.pending.end {
			if target, ok := picks.settle(); ok {
				return extract(src, target, opts.Trim, length)
			}
		}
	}
	if target, ok := picks.settle(); ok {
		return extract(src, target, opts.Trim, length)
	}
	return Match{}, false, nil
}

func extract(src io.ReadSeeker, target span, trim int, length int64) (Match, bool, error) {
	cut := min(max(target.start+int64(trim), 0), length)
	text, err := readAt(src, cut, length-cut)
	if err != nil {
		return Match{}, false, err
	}
	return Match{Offset: target.start, Cut: cut, Text: text}, true, nil
}

type span struct {
	start, end int64
}

// tally counts occurrences fed to it in descending start order. An occurrence
// is kept only when it ends at or before the start of the one kept after it.
// A candidate whose match covers the held occurrence replaces it, so a run
// such as "---" under /-+/ counts once from its first byte. The outcome
// depends only on where the delimiter matches, never on chunk boundaries.
type tally struct {
	remaining int
	bound     int64
	pending   span
	held      bool
}

// offer feeds the next occurrence and returns the target once it is final.
func (t *tally) offer(c span) (span, bool) {
	if t.held && c.end >= t.pending.end {
		t.pending = c
		return span{}, false
	}
	limit := t.bound
	if t.held {
		limit = t.pending.start
	}
	if c.end > limit {
		return span{}, false
	}
	if target, ok := t.settle(); ok {
		return target, true
	}
	t.pending, t.held = c, true
	return span{}, false
}

// settle finalizes the held occurrence, if any, and reports it when no skips
// remain.
func (t *tally) settle() (span, bool) {
	if !t.held {
		return span{}, false
	}
	p := t.pending
	t.held = false
	if t.remaining > 0 {
		t.remaining--
		t.bound = p.start
		return span{}, false
	}
	return p, true
}

func checkContract(src io.ReadSeeker, delim Delimiter, opts *Options) error {
	if src == nil {
		return ErrNilSource
	}
	if delim == nil {
		return ErrNilDelimiter
	}
	if opts.ChunkSize < 0 {
		return fmt.Errorf("%w: chunk size %d", ErrInvalidOptions, opts.ChunkSize)
	}
	if opts.Skip < 0 {
		return fmt.Errorf("%w: skip %d", ErrInvalidOptions, opts.Skip)
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	width := delim.MaxLen()
	if width == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyDelimiter, delim)
	}
	if width > opts.ChunkSize {
		return fmt.Errorf("%w: %s needs %d bytes, chunk is %d", ErrChunkTooSmall, delim, width, opts.ChunkSize)
	}
	return nil
}

// occurrences lists every position in window before limit where delim
// matches, shifted by base, in increasing order. Overlapping occurrences are
// all listed; tally decides which ones count. Positions at or after limit lie
// in the chunk read on the previous step and were listed there.
func occurrences(delim Delimiter, window []byte, limit int, base int64) []span {
	var hits []span
	for off := 0; off < limit; {
		start, end := delim.Find(window[off:])
		if start < 0 || off+start >= limit {
			break
		}
		hits = append(hits, span{start: base + int64(off+start), end: base + int64(off+end)})
		off += start + 1
	}
	return hits
}

// preserve records the current position of src and returns a function that
// seeks back to it. The restore error is reported only when *errp is nil.
func preserve(src io.Seeker) (func(errp *error), error) {
	original, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("read position: %w", err)
	}
	return func(errp *error) {
		if _, err := src.Seek(original, io.SeekStart); err != nil && *errp == nil {
			*errp = fmt.Errorf("restore position %d: %w", original, err)
		}
	}, nil
}

func readAt(src io.ReadSeeker, off, n int64) ([]byte, error) {
	if _, err := src.Seek(off, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to %d: %w", off, err)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(src, buf); err != nil {
		return nil, fmt.Errorf("read %d bytes at %d: %w", n, off, err)
	}
	return buf, nil
}
