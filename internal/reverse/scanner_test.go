package reverse_test

import (
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"mclogs/internal/reverse"
)

func position(t *testing.T, src io.Seeker) int64 {
	t.Helper()
	pos, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatalf("tell: %v", err)
	}
	return pos
}

func TestScanBackwardSkipsTrailingOccurrence(t *testing.T) {
	src := strings.NewReader("AAA\nBBB\nCCC\n")

	m, ok, err := reverse.ScanBackward(src, reverse.Literal("\n"), reverse.Options{ChunkSize: 4, Skip: 1, Trim: 1})
	if err != nil {
		t.Fatalf("ScanBackward error: %v", err)
	}
	if !ok {
		t.Fatal("expected a match")
	}
	if got := string(m.Text); got != "CCC\n" {
		t.Fatalf("text = %q, want %q", got, "CCC\n")
	}
	if m.Offset != 7 || m.Cut != 8 {
		t.Fatalf("offset/cut = %d/%d, want 7/8", m.Offset, m.Cut)
	}
	if pos := position(t, src); pos != 0 {
		t.Fatalf("position = %d, want 0", pos)
	}
}

func TestScanBackwardNoDelimiter(t *testing.T) {
	src := strings.NewReader("a single record without any terminator")
	if _, err := src.Seek(9, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}

	_, ok, err := reverse.ScanBackward(src, reverse.Literal("\n"), reverse.Options{ChunkSize: 4})
	if err != nil {
		t.Fatalf("ScanBackward error: %v", err)
	}
	if ok {
		t.Fatal("expected not found")
	}
	if pos := position(t, src); pos != 9 {
		t.Fatalf("position = %d, want 9", pos)
	}
}

func TestScanBackwardEmptyStream(t *testing.T) {
	src := strings.NewReader("")

	_, ok, err := reverse.ScanBackward(src, reverse.Literal("\n"), reverse.Options{})
	if err != nil {
		t.Fatalf("ScanBackward error: %v", err)
	}
	if ok {
		t.Fatal("expected not found for empty stream")
	}
	if pos := position(t, src); pos != 0 {
		t.Fatalf("position = %d, want 0", pos)
	}
}

func TestScanBackwardCountsOccurrencesFromEnd(t *testing.T) {
	const content = "a,bb,ccc,dddd"
	want := []string{"dddd", "ccc,dddd", "bb,ccc,dddd"}
	wantOffsets := []int64{8, 4, 1}

	for _, chunk := range []int{1, 2, 3, 5, 64} {
		for skip := 0; skip <= len(want); skip++ {
			src := strings.NewReader(content)
			m, ok, err := reverse.ScanBackward(src, reverse.Literal(","), reverse.Options{ChunkSize: chunk, Skip: skip, Trim: 1})
			if err != nil {
				t.Fatalf("chunk=%d skip=%d: error %v", chunk, skip, err)
			}
			if skip == len(want) {
				if ok {
					t.Fatalf("chunk=%d skip=%d: expected not found, got %q", chunk, skip, m.Text)
				}
				continue
			}
			if !ok {
				t.Fatalf("chunk=%d skip=%d: expected match", chunk, skip)
			}
			if string(m.Text) != want[skip] || m.Offset != wantOffsets[skip] {
				t.Fatalf("chunk=%d skip=%d: got %q at %d, want %q at %d", chunk, skip, m.Text, m.Offset, want[skip], wantOffsets[skip])
			}
		}
	}
}

func TestScanBackwardDetectsStraddlingDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		chunk   int
		offset  int64
		text    string
	}{
		// Reads are [5,7) [3,5) [1,3): "\r" and "\n" land in different reads.
		{name: "chunk equals delimiter", content: "ab\r\ncde", chunk: 2, offset: 2, text: "cde"},
		// Reads are [5,8) [2,5): the boundary falls between "\r" and "\n".
		{name: "chunk larger than delimiter", content: "abcd\r\nef", chunk: 3, offset: 4, text: "ef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok, err := reverse.ScanBackward(strings.NewReader(tt.content), reverse.Literal("\r\n"), reverse.Options{ChunkSize: tt.chunk, Trim: 2})
			if err != nil {
				t.Fatalf("ScanBackward error: %v", err)
			}
			if !ok {
				t.Fatal("straddling delimiter not detected")
			}
			if m.Offset != tt.offset || string(m.Text) != tt.text {
				t.Fatalf("got %q at %d, want %q at %d", m.Text, m.Offset, tt.text, tt.offset)
			}

			_, ok, err = reverse.ScanBackward(strings.NewReader(tt.content), reverse.Literal("\r\n"), reverse.Options{ChunkSize: tt.chunk, Skip: 1})
			if err != nil {
				t.Fatalf("ScanBackward error: %v", err)
			}
			if ok {
				t.Fatal("straddling delimiter counted more than once")
			}
		})
	}
}

func TestScanBackwardCountsInChunkDelimiterOnce(t *testing.T) {
	// With chunk 4 the reads are [4,8) and [0,4); the ";" at 5 shows up again in
	// the second half of the window after the shift.
	const content = "aa;bb;cc"
	delim := reverse.Literal(";")

	m, ok, err := reverse.ScanBackward(strings.NewReader(content), delim, reverse.Options{ChunkSize: 4, Skip: 1})
	if err != nil {
		t.Fatalf("ScanBackward error: %v", err)
	}
	if !ok || m.Offset != 2 {
		t.Fatalf("skip 1: got ok=%v offset=%d, want offset 2", ok, m.Offset)
	}

	_, ok, err = reverse.ScanBackward(strings.NewReader(content), delim, reverse.Options{ChunkSize: 4, Skip: 2})
	if err != nil {
		t.Fatalf("ScanBackward error: %v", err)
	}
	if ok {
		t.Fatal("skip 2: expected not found, delimiter was double counted")
	}
}

func TestScanBackwardPatternWithNegativeTrim(t *testing.T) {
	const content = "[10:00:00] a\n[10:05:00] b\n[10:07:30] c\n"
	delim, err := reverse.CompilePattern(`\d{2}:\d{2}:\d{2}`)
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}

	tests := []struct {
		name  string
		chunk int
		skip  int
		want  string
	}{
		{name: "last entry chunk at delimiter width", chunk: 8, skip: 0, want: "[10:07:30] c\n"},
		{name: "last entry default chunk", chunk: 0, skip: 0, want: "[10:07:30] c\n"},
		{name: "several matches in one chunk", chunk: 64, skip: 1, want: "[10:05:00] b\n[10:07:30] c\n"},
		{name: "first entry", chunk: 8, skip: 2, want: content},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok, err := reverse.ScanBackward(strings.NewReader(content), delim, reverse.Options{ChunkSize: tt.chunk, Skip: tt.skip, Trim: -1})
			if err != nil {
				t.Fatalf("ScanBackward error: %v", err)
			}
			if !ok {
				t.Fatal("expected match")
			}
			if string(m.Text) != tt.want {
				t.Fatalf("text = %q, want %q", m.Text, tt.want)
			}
		})
	}
}

func TestScanBackwardTrimIsClamped(t *testing.T) {
	m, ok, err := reverse.ScanBackward(strings.NewReader("x\nyz"), reverse.Literal("\n"), reverse.Options{Trim: -10})
	if err != nil || !ok {
		t.Fatalf("ScanBackward = ok %v err %v", ok, err)
	}
	if m.Cut != 0 || string(m.Text) != "x\nyz" {
		t.Fatalf("cut/text = %d/%q, want 0/%q", m.Cut, m.Text, "x\nyz")
	}

	m, ok, err = reverse.ScanBackward(strings.NewReader("x\nyz"), reverse.Literal("\n"), reverse.Options{Trim: 10})
	if err != nil || !ok {
		t.Fatalf("ScanBackward = ok %v err %v", ok, err)
	}
	if m.Cut != 4 || len(m.Text) != 0 {
		t.Fatalf("cut/text = %d/%q, want 4/empty", m.Cut, m.Text)
	}
}

func TestScanBackwardChunkSmallerThanDelimiter(t *testing.T) {
	t.Run("bounded delimiter is rejected before any seek", func(t *testing.T) {
		src := strings.NewReader("ab\r\ncd")
		if _, err := src.Seek(3, io.SeekStart); err != nil {
			t.Fatalf("seek: %v", err)
		}
		_, ok, err := reverse.ScanBackward(src, reverse.Literal("\r\n"), reverse.Options{ChunkSize: 1})
		if !errors.Is(err, reverse.ErrChunkTooSmall) || !errors.Is(err, reverse.ErrContract) {
			t.Fatalf("error = %v, want ErrChunkTooSmall", err)
		}
		if ok {
			t.Fatal("expected no match")
		}
		if pos := position(t, src); pos != 3 {
			t.Fatalf("position = %d, want 3", pos)
		}
	})

	t.Run("unbounded pattern is truncated at the chunk boundary", func(t *testing.T) {
		delim := reverse.Pattern(regexp.MustCompile(`-+`))

		// A window holds two chunks, so with chunk 1 the run is cut after two bytes.
		m, ok, err := reverse.ScanBackward(strings.NewReader("ab---cd"), delim, reverse.Options{ChunkSize: 1})
		if err != nil || !ok {
			t.Fatalf("ScanBackward = ok %v err %v", ok, err)
		}
		if m.Offset != 3 || string(m.Text) != "--cd" {
			t.Fatalf("small chunk: got %q at %d, want %q at 3", m.Text, m.Offset, "--cd")
		}

		m, ok, err = reverse.ScanBackward(strings.NewReader("ab---cd"), delim, reverse.Options{ChunkSize: 8})
		if err != nil || !ok {
			t.Fatalf("ScanBackward = ok %v err %v", ok, err)
		}
		if m.Offset != 2 || string(m.Text) != "---cd" {
			t.Fatalf("large chunk: got %q at %d, want %q at 2", m.Text, m.Offset, "---cd")
		}
	})
}

func TestScanBackwardOverlappingDelimiterIgnoresChunkSize(t *testing.T) {
	tests := []struct {
		name    string
		content string
		delim   reverse.Delimiter
		offsets []int64
	}{
		{name: "odd run", content: "x\n\n\ny", delim: reverse.Literal("\n\n"), offsets: []int64{2}},
		{name: "two runs", content: "a\n\n\nb\n\n\n\nc", delim: reverse.Literal("\n\n"), offsets: []int64{7, 5, 2}},
		{name: "repeated letter", content: "aaaaa", delim: reverse.Literal("aa"), offsets: []int64{3, 1}},
		{name: "run under a repeat", content: "ab--cd--", delim: reverse.Pattern(regexp.MustCompile(`-{1,2}`)), offsets: []int64{6, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, chunk := range []int{2, 3, 64} {
				for skip := 0; skip <= len(tt.offsets); skip++ {
					m, ok, err := reverse.ScanBackward(strings.NewReader(tt.content), tt.delim, reverse.Options{ChunkSize: chunk, Skip: skip})
					if err != nil {
						t.Fatalf("chunk=%d skip=%d: error %v", chunk, skip, err)
					}
					if skip == len(tt.offsets) {
						if ok {
							t.Fatalf("chunk=%d skip=%d: expected not found, got offset %d", chunk, skip, m.Offset)
						}
						continue
					}
					if !ok || m.Offset != tt.offsets[skip] {
						t.Fatalf("chunk=%d skip=%d: got ok=%v offset %d, want %d", chunk, skip, ok, m.Offset, tt.offsets[skip])
					}
				}
			}
		})
	}
}

func TestScanBackwardContractViolations(t *testing.T) {
	tests := []struct {
		name  string
		src   io.ReadSeeker
		delim reverse.Delimiter
		opts  reverse.Options
		want  error
	}{
		{name: "nil source", src: nil, delim: reverse.Literal("\n"), want: reverse.ErrNilSource},
		{name: "nil delimiter", src: strings.NewReader("x"), delim: nil, want: reverse.ErrNilDelimiter},
		{name: "nil pattern", src: strings.NewReader("x"), delim: reverse.Pattern(nil), want: reverse.ErrNilDelimiter},
		{name: "empty literal", src: strings.NewReader("x"), delim: reverse.Literal(""), want: reverse.ErrEmptyDelimiter},
		{name: "zero width pattern", src: strings.NewReader("x"), delim: reverse.Pattern(regexp.MustCompile(`^`)), want: reverse.ErrEmptyDelimiter},
		{name: "negative chunk", src: strings.NewReader("x"), delim: reverse.Literal("\n"), opts: reverse.Options{ChunkSize: -1}, want: reverse.ErrInvalidOptions},
		{name: "negative skip", src: strings.NewReader("x"), delim: reverse.Literal("\n"), opts: reverse.Options{Skip: -1}, want: reverse.ErrInvalidOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := reverse.ScanBackward(tt.src, tt.delim, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, reverse.ErrContract) {
				t.Fatalf("error %v does not wrap ErrContract", err)
			}
			if ok {
				t.Fatal("expected no match")
			}
		})
	}
}

var errBrokenRead = errors.New("broken read")

type brokenReader struct {
	*strings.Reader
	okReads int
}

func (b *brokenReader) Read(p []byte) (int, error) {
	if b.okReads == 0 {
		return 0, errBrokenRead
	}
	b.okReads--
	return b.Reader.Read(p)
}

func TestScanBackwardRestoresPositionOnReadError(t *testing.T) {
	src := &brokenReader{Reader: strings.NewReader("no terminators in this text at all"), okReads: 2}
	if _, err := src.Seek(5, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}

	_, ok, err := reverse.ScanBackward(src, reverse.Literal("\n"), reverse.Options{ChunkSize: 4})
	if !errors.Is(err, errBrokenRead) {
		t.Fatalf("error = %v, want errBrokenRead", err)
	}
	if ok {
		t.Fatal("expected no match")
	}
	if pos := position(t, src); pos != 5 {
		t.Fatalf("position = %d, want 5", pos)
	}
}

func TestScanBackwardRestoresPosition(t *testing.T) {
	const content = "one\ntwo\nthree\nfour\n"
	delim := reverse.Literal("\n")

	for start := int64(0); start <= int64(len(content)); start++ {
		for skip := 0; skip < 6; skip++ {
			src := strings.NewReader(content)
			if _, err := src.Seek(start, io.SeekStart); err != nil {
				t.Fatalf("seek: %v", err)
			}
			if _, _, err := reverse.ScanBackward(src, delim, reverse.Options{ChunkSize: 3, Skip: skip, Trim: 1}); err != nil {
				t.Fatalf("ScanBackward error: %v", err)
			}
			if pos := position(t, src); pos != start {
				t.Fatalf("start=%d skip=%d: position = %d", start, skip, pos)
			}
		}
	}
}
