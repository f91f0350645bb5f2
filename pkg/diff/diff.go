// Package diff produces unified diffs between a file and its formatted form.
package diff

import (
	"fmt"
	"strings"
)

// ContextLines is the number of unchanged lines shown around each change.
const ContextLines = 3

// Kind tells whether a line is kept, added or removed.
type Kind int

const (
	Context Kind = iota
	Add
	Remove
)

// Line is one line of a hunk, without its diff prefix.
type Line struct {
	Kind    Kind
	Content string

	// NoEOL marks the last line of a file that lacks a final newline.
	NoEOL bool
}

// Hunk is one "@@" section. Starts are 1-based; a zero count comes with
// the start of the preceding line, as in GNU diff.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// Diff is the set of hunks turning one file into another.
type Diff struct {
	Path      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// Compute diffs original against modified. It returns nil when the two
// are byte-for-byte equal.
func Compute(path string, original, modified []byte) *Diff {
	if string(original) == string(modified) {
		return nil
	}

	ops := script(split(original), split(modified))
	hunks := group(ops)
	if len(hunks) == 0 {
		return nil
	}

	d := &Diff{Path: path, Hunks: hunks}
	for _, op := range ops {
		switch op.Kind {
		case Add:
			d.Additions++
		case Remove:
			d.Deletions++
		}
	}
	return d
}

// HasChanges reports whether d holds at least one hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// Header returns the "diff --git" line.
func (d *Diff) Header() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String renders the unified diff without the git header.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", path)
	fmt.Fprintf(&b, "+++ b/%s\n", path)

	for _, hunk := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n",
			hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
		for _, line := range hunk.Lines {
			b.WriteByte(prefix(line.Kind))
			b.WriteString(line.Content)
			b.WriteByte('\n')
			if line.NoEOL {
				b.WriteString("\\ No newline at end of file\n")
			}
		}
	}

	return b.String()
}

// FullString is Header followed by String.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.Header() + "\n" + d.String()
}

func prefix(kind Kind) byte {
	switch kind {
	case Add:
		return '+'
	case Remove:
		return '-'
	default:
		return ' '
	}
}
