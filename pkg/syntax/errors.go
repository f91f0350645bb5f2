package syntax

import (
	"errors"
	"fmt"

	"github.com/yaklabco/parenfmt/pkg/position"
)

// ErrSyntax matches every *Error via errors.Is.
var ErrSyntax = errors.New("syntax error")

// Grammar contexts reported in Error.Context.
const (
	ContextModule     = "module"
	ContextExpression = "expression"
	ContextList       = "list"
	ContextQuote      = "quote"
	ContextString     = "string"
	ContextSymbol     = "symbol"
)

// Error describes the first position at which the grammar could not match.
type Error struct {
	// Message is a human-readable description of the failure.
	Message string

	// Offset is the 0-based byte offset of the conflicting token, or the
	// source length when input ended early.
	Offset int

	// Expected is the literal character the grammar required, or 0.
	Expected rune

	// Context names the production that failed.
	Context string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (offset %d)", e.Message, e.Offset)
}

// Is reports whether target is ErrSyntax.
func (e *Error) Is(target error) bool {
	return target == ErrSyntax
}

// Location converts the error offset to a line and column using idx.
func (e *Error) Location(idx *position.Index) position.Location {
	return idx.Location(e.Offset)
}
