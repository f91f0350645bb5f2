package position

import "sort"

// Index maps byte offsets to line indices for one source buffer.
// It is built once and never mutated.
type Index struct {
	// lines holds strictly increasing line-start offsets; lines[0] is 0.
	lines []int

	// sentinel is true when the last entry of lines is len(source) rather
	// than the start of a real line.
	sentinel bool

	size int
}

// NewIndex scans src once and records the start offset of every line.
// A trailing sentinel equal to len(src) is appended when content follows
// the final newline.
func NewIndex(src string) *Index {
	lines := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, i+1)
		}
	}

	idx := &Index{lines: lines, size: len(src)}
	if last := lines[len(lines)-1]; last < len(src) {
		idx.lines = append(idx.lines, len(src))
		idx.sentinel = true
	}
	return idx
}

// LineCount returns the number of content lines, not counting the sentinel.
func (x *Index) LineCount() int {
	if x.sentinel {
		return len(x.lines) - 1
	}
	return len(x.lines)
}

// Size returns the length of the indexed source in bytes.
func (x *Index) Size() int {
	return x.size
}

// LineStart returns the byte offset at which the given line begins.
func (x *Index) LineStart(line int) (int, bool) {
	if line < 0 || line >= x.LineCount() {
		return 0, false
	}
	return x.lines[line], true
}

// LineIndex returns the index of the line containing offset.
// The second result is false when the offset is negative or falls on the
// trailing sentinel, where no content line covers it.
func (x *Index) LineIndex(offset int) (int, bool) {
	if offset < 0 || offset > x.size {
		return 0, false
	}

	// Smallest i with lines[i] > offset; the owning line is the one before.
	i := sort.SearchInts(x.lines, offset+1) - 1
	if i < 0 {
		return 0, false
	}
	if x.sentinel && i == len(x.lines)-1 {
		return 0, false
	}
	return i, true
}

// ColumnIndex returns the byte column of offset within its line.
func (x *Index) ColumnIndex(offset int) (int, bool) {
	line, ok := x.LineIndex(offset)
	if !ok {
		return 0, false
	}
	return offset - x.lines[line], true
}

// LineRange returns the half-open byte range of the line owning offset.
// The range includes the line terminator. The final line without a
// following entry ends at the source length.
func (x *Index) LineRange(offset int) (Span, bool) {
	line, ok := x.LineIndex(offset)
	if !ok {
		return Span{}, false
	}
	end := x.size
	if line+1 < len(x.lines) {
		end = x.lines[line+1]
	}
	return Span{Start: x.lines[line], End: end}, true
}

// Location converts offset to a line and column for display.
// Offsets at or past the end of the source clamp to the last line so
// end-of-input errors still point somewhere useful. When the source ends
// with a newline, that newline is the last position reported.
func (x *Index) Location(offset int) Location {
	if offset < 0 {
		return Location{}
	}
	if offset < x.size {
		line, _ := x.LineIndex(offset)
		return Location{Line: line, Column: offset - x.lines[line]}
	}

	last := x.LineCount() - 1
	if last > 0 && x.lines[last] == x.size {
		// Nothing follows the final newline.
		last--
		return Location{Line: last, Column: x.size - 1 - x.lines[last]}
	}
	return Location{Line: last, Column: offset - x.lines[last]}
}
