package reverse

import (
	"bytes"
	"fmt"
	"regexp"
	"regexp/syntax"
	"unicode"
	"unicode/utf8"
)

// Unbounded is reported by MaxLen when a delimiter has no longest match.
const Unbounded = -1

// Delimiter marks a boundary between records in a stream.
type Delimiter interface {
	// Find returns the bounds of the earliest non-empty occurrence in buf,
	// or -1, -1 when there is none.
	Find(buf []byte) (start, end int)
	// MaxLen returns the longest possible occurrence in bytes, or Unbounded.
	MaxLen() int
	String() string
}

// Literal returns a delimiter matching text exactly.
func Literal(text string) Delimiter {
	return literal{text: []byte(text)}
}

type literal struct {
	text []byte
}

func (l literal) Find(buf []byte) (int, int) {
	if len(l.text) == 0 {
		return -1, -1
	}
	idx := bytes.Index(buf, l.text)
	if idx < 0 {
		return -1, -1
	}
	return idx, idx + len(l.text)
}

func (l literal) MaxLen() int { return len(l.text) }

func (l literal) String() string { return fmt.Sprintf("literal %q", l.text) }

// Pattern returns a delimiter backed by a compiled regular expression.
// Empty matches are never reported as occurrences.
func Pattern(re *regexp.Regexp) Delimiter {
	if re == nil {
		return nil
	}
	return pattern{re: re, maxLen: patternMaxLen(re.String())}
}

// CompilePattern compiles expr and wraps it as a delimiter.
func CompilePattern(expr string) (Delimiter, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile delimiter pattern: %w", err)
	}
	return Pattern(re), nil
}

type pattern struct {
	re     *regexp.Regexp
	maxLen int
}

func (p pattern) Find(buf []byte) (int, int) {
	for off := 0; off <= len(buf); {
		loc := p.re.FindIndex(buf[off:])
		if loc == nil {
			return -1, -1
		}
		if loc[1] > loc[0] {
			return off + loc[0], off + loc[1]
		}
		off += loc[0] + 1
	}
	return -1, -1
}

func (p pattern) MaxLen() int { return p.maxLen }

func (p pattern) String() string { return fmt.Sprintf("pattern /%s/", p.re) }

func patternMaxLen(expr string) int {
	parsed, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return Unbounded
	}
	return maxWidth(parsed)
}

// maxWidth returns the longest UTF-8 encoding a match of re can have.
func maxWidth(re *syntax.Regexp) int {
	switch re.Op {
	case syntax.OpNoMatch, syntax.OpEmptyMatch,
		syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpBeginText, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return 0
	case syntax.OpLiteral:
		fold := re.Flags&syntax.FoldCase != 0
		total := 0
		for _, r := range re.Rune {
			total += runeWidth(r, fold)
		}
		return total
	case syntax.OpCharClass:
		widest := 0
		for i := 1; i < len(re.Rune); i += 2 {
			widest = max(widest, encodedLen(re.Rune[i]))
		}
		return widest
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return utf8.UTFMax
	case syntax.OpCapture, syntax.OpQuest:
		return maxWidth(re.Sub[0])
	case syntax.OpStar, syntax.OpPlus:
		return Unbounded
	case syntax.OpRepeat:
		if re.Max < 0 {
			return Unbounded
		}
		sub := maxWidth(re.Sub[0])
		if sub == Unbounded {
			return Unbounded
		}
		return sub * re.Max
	case syntax.OpConcat:
		total := 0
		for _, sub := range re.Sub {
			w := maxWidth(sub)
			if w == Unbounded {
				return Unbounded
			}
			total += w
		}
		return total
	case syntax.OpAlternate:
		widest := 0
		for _, sub := range re.Sub {
			w := maxWidth(sub)
			if w == Unbounded {
				return Unbounded
			}
			widest = max(widest, w)
		}
		return widest
	}
	return Unbounded
}

func runeWidth(r rune, fold bool) int {
	width := encodedLen(r)
	if !fold {
		return width
	}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		width = max(width, encodedLen(f))
	}
	return width
}

func encodedLen(r rune) int {
	if n := utf8.RuneLen(r); n > 0 {
		return n
	}
	return utf8.UTFMax
}
