// Package edit applies byte-range replacements to a document.
package edit

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
)

// Edit replaces the bytes [Start, End) with Text.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Replace returns an edit replacing [start, end) with text.
func Replace(start, end int, text string) Edit {
	return Edit{Start: start, End: end, Text: text}
}

// RangeError describes an edit that does not fit the document.
type RangeError struct {
	Edit    Edit
	Message string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.Start, e.Edit.End, e.Message)
}

// ConflictError describes two edits touching the same bytes.
type ConflictError struct {
	First, Second Edit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.First.Start, e.First.End, e.Second.Start, e.Second.End)
}

// Prepare checks edits against a document of size bytes and returns them
// sorted by position. The input slice is not modified.
func Prepare(edits []Edit, size int) ([]Edit, error) {
	for _, e := range edits {
		switch {
		case e.Start < 0:
			return nil, &RangeError{Edit: e, Message: "start offset is negative"}
		case e.End < e.Start:
			return nil, &RangeError{Edit: e, Message: "end offset is before start offset"}
		case e.End > size:
			return nil, &RangeError{Edit: e, Message: fmt.Sprintf("end offset %d exceeds content length %d", e.End, size)}
		}
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b Edit) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(a.End, b.End))
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].End {
			return nil, &ConflictError{First: sorted[i-1], Second: sorted[i]}
		}
	}

	return sorted, nil
}

// Apply returns content with edits applied. content itself is never
// modified; with no edits it is returned as is.
func Apply(content []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return content, nil
	}

	sorted, err := Prepare(edits, len(content))
	if err != nil {
		return nil, err
	}

	delta := 0
	for _, e := range sorted {
		delta += len(e.Text) - (e.End - e.Start)
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range sorted {
		out.Write(content[cursor:e.Start])
		out.WriteString(e.Text)
		cursor = e.End
	}
	out.Write(content[cursor:])

	return out.Bytes(), nil
}
