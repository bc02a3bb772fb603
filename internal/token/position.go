package token

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Position is a zero-based line and character location in an input string.
// Characters are counted in runes from the start of the line.
type Position struct {
	Line      int
	Character int
}

// String returns the position as "line:character".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Compare returns -1, 0 or +1 depending on whether p is before, equal to or
// after other.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Character < other.Character:
		return -1
	case p.Character > other.Character:
		return 1
	}
	return 0
}

// Range is the resolved start and end position of a token or span.
type Range struct {
	Start Position
	End   Position
}

// String returns the range as "start-end".
func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Contains reports whether pos lies within the range, end inclusive.
func (r Range) Contains(pos Position) bool {
	return r.Start.Compare(pos) <= 0 && pos.Compare(r.End) <= 0
}

// LineIndex converts between byte offsets and positions for one input. It
// is built once, in a single pass over the input, and then answers lookups
// in logarithmic time.
type LineIndex struct {
	input      string
	lineStarts []int
}

// NewLineIndex indexes the line starts of input.
func NewLineIndex(input string) *LineIndex {
	starts := make([]int, 1, strings.Count(input, "\n")+1)
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{input: input, lineStarts: starts}
}

// LineCount returns the number of lines in the input. An input ending in a
// newline has a final empty line.
func (idx *LineIndex) LineCount() int {
	return len(idx.lineStarts)
}

// Line returns the text of the zero-based line n without its newline.
func (idx *LineIndex) Line(n int) string {
	if n < 0 || n >= len(idx.lineStarts) {
		return ""
	}
	start := idx.lineStarts[n]
	end := len(idx.input)
	if n+1 < len(idx.lineStarts) {
		end = idx.lineStarts[n+1] - 1
	}
	return strings.TrimSuffix(idx.input[start:end], "\r")
}

// Position returns the position of a byte offset. Offsets past the end of
// the input resolve to the end of the input.
func (idx *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(idx.input) {
		offset = len(idx.input)
	}
	line := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	}) - 1
	start := idx.lineStarts[line]
	return Position{
		Line:      line,
		Character: utf8.RuneCountInString(idx.input[start:offset]),
	}
}

// Range resolves a half-open byte range.
func (idx *LineIndex) Range(start, end int) Range {
	return Range{Start: idx.Position(start), End: idx.Position(end)}
}

// Offset returns the byte offset of a position. Characters beyond the end
// of a line clamp to the line's newline, lines beyond the input clamp to
// the end of the input.
func (idx *LineIndex) Offset(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(idx.lineStarts) {
		return len(idx.input)
	}
	offset := idx.lineStarts[pos.Line]
	for n := 0; n < pos.Character && offset < len(idx.input); n++ {
		r, size := utf8.DecodeRuneInString(idx.input[offset:])
		if r == '\n' {
			break
		}
		offset += size
	}
	return offset
}
