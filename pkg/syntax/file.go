package syntax

import "github.com/yaklabco/parenfmt/pkg/position"

// File bundles everything the formatter needs from one source buffer:
// the syntax tree, the comment list, and the line index.
type File struct {
	Source   string
	Module   *Module
	Comments []Comment
	Index    *position.Index
}

// ParseFile parses src and extracts its comments in one call.
func ParseFile(src string) (*File, error) {
	mod, err := Parse(src)
	if err != nil {
		return nil, err
	}

	comments, err := Comments(src)
	if err != nil {
		return nil, err
	}

	return &File{
		Source:   src,
		Module:   mod,
		Comments: comments,
		Index:    position.NewIndex(src),
	}, nil
}

// Line returns the 0-based line of offset. Offsets at the end of input
// belong to the last line.
func (f *File) Line(offset int) int {
	return f.Index.Location(offset).Line
}
