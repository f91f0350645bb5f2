package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/parenfmt/pkg/position"
	"github.com/yaklabco/parenfmt/pkg/syntax"
)

// ParseError is a syntax error located in the file that caused it. It
// matches both ErrParseFailure and syntax.ErrSyntax.
type ParseError struct {
	Path string

	// Location is 0-based; its String method prints it 1-based.
	Location position.Location

	// SourceLine is the offending line without its terminator.
	SourceLine string

	Err *syntax.Error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrParseFailure, e.Location, e.Err.Message)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParseFailure, e.Err}
}

// newParseError locates err in src. Errors that are not syntax errors are
// wrapped in ErrParseFailure unchanged.
func newParseError(path, src string, err error) error {
	var syntaxErr *syntax.Error
	if !errors.As(err, &syntaxErr) {
		return fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	index := position.NewIndex(src)
	loc := syntaxErr.Location(index)
	return &ParseError{
		Path:       path,
		Location:   loc,
		SourceLine: sourceLine(src, index, loc.Line),
		Err:        syntaxErr,
	}
}

func sourceLine(src string, index *position.Index, line int) string {
	start, ok := index.LineStart(line)
	if !ok {
		return ""
	}
	rest := src[start:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimRight(rest, "\r")
}
