package reverse

import (
	"bytes"
	"fmt"
	"io"
)

// LastLine returns the final non-empty line of src without its terminator.
//
// A well-formed text file ends with a terminator, so its last line sits
// between the second-to-last and last terminators and is found by skipping one
// occurrence and trimming one terminator length. An unterminated final segment
// is returned as-is, blank trailing lines are passed over, and the first line
// is returned when no earlier terminator exists. The boolean is false when src
// holds no non-empty line.
func LastLine(src io.ReadSeeker, terminator string, chunkSize int) (string, bool, error) {
	if terminator == "" {
		return "", false, fmt.Errorf("%w: empty line terminator", ErrEmptyDelimiter)
	}
	delim := Literal(terminator)
	term := []byte(terminator)

	for skip := 0; ; skip++ {
		m, ok, err := ScanBackward(src, delim, Options{ChunkSize: chunkSize, Skip: skip, Trim: len(term)})
		if err != nil {
			return "", false, err
		}
		text := m.Text
		if !ok {
			if text, err = contents(src); err != nil {
				return "", false, err
			}
		}
		if line := firstSegment(text, term); len(line) > 0 {
			return string(line), true, nil
		}
		if !ok {
			return "", false, nil
		}
	}
}

func firstSegment(text, term []byte) []byte {
	if idx := bytes.Index(text, term); idx >= 0 {
		return text[:idx]
	}
	return text
}

// contents reads all of src while leaving its position unchanged.
func contents(src io.ReadSeeker) (data []byte, err error) {
	restore, err := preserve(src)
	if err != nil {
		return nil, err
	}
	defer restore(&err)

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to start: %w", err)
	}
	data, err = io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	return data, nil
}
