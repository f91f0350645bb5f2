// Package position maps byte offsets in a source buffer to line and column indices.
//
// All indices produced by this package are 0-based. Callers that display
// locations to users add one themselves.
package position

import "fmt"

// Span is a half-open byte range [Start, End) into a source buffer.
type Span struct {
	// Start is the byte index where the span begins (inclusive).
	Start int

	// End is the byte index where the span ends (exclusive).
	End int
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains returns true if the given offset is within this span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Last returns the offset of the final byte covered by the span.
// Empty spans return Start.
func (s Span) Last() int {
	if s.End > s.Start {
		return s.End - 1
	}
	return s.Start
}

// Text returns the slice of src covered by the span.
// Returns "" if the span does not fit inside src.
func (s Span) Text(src string) string {
	if s.Start < 0 || s.End < s.Start || s.End > len(src) {
		return ""
	}
	return src[s.Start:s.End]
}

// Location is a 0-based line and column pair.
type Location struct {
	Line   int
	Column int
}

// String renders the location 1-based, the way editors expect it.
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line+1, l.Column+1)
}
