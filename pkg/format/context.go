package format

import (
	"github.com/yaklabco/parenfmt/pkg/position"
	"github.com/yaklabco/parenfmt/pkg/syntax"
)

// Context is a one-shot cursor over a file's comments. Each comment is
// handed out at most once, in source order.
//
// Queries must use non-decreasing line indices. The compiler guarantees
// this by walking the tree left to right; an out-of-order query attaches
// comments to the wrong expression but never panics.
type Context struct {
	comments []syntax.Comment
	index    *position.Index
	next     int
}

// NewContext returns a Context over comments, which must be sorted by
// offset as produced by syntax.Comments.
func NewContext(comments []syntax.Comment, index *position.Index) *Context {
	return &Context{comments: comments, index: index}
}

// DrainBefore removes and returns the leading run of buffered comments
// that start on a line strictly before line.
func (c *Context) DrainBefore(line int) []syntax.Comment {
	end := c.scan(line)
	if end == c.next {
		return nil
	}
	drained := c.comments[c.next:end:end]
	c.next = end
	return drained
}

// DrainCurrent removes and returns buffered comments that start on or
// before line.
func (c *Context) DrainCurrent(line int) []syntax.Comment {
	return c.DrainBefore(line + 1)
}

// PeekBefore is DrainBefore without consuming anything.
func (c *Context) PeekBefore(line int) []syntax.Comment {
	end := c.scan(line)
	if end == c.next {
		return nil
	}
	return c.comments[c.next:end:end]
}

// DrainRemaining removes and returns every buffered comment.
func (c *Context) DrainRemaining() []syntax.Comment {
	return c.DrainBefore(c.index.LineCount() + 1)
}

// Len reports how many comments are still buffered.
func (c *Context) Len() int {
	return len(c.comments) - c.next
}

func (c *Context) scan(line int) int {
	end := c.next
	for end < len(c.comments) && c.startLine(c.comments[end]) < line {
		end++
	}
	return end
}

func (c *Context) startLine(comment syntax.Comment) int {
	return c.index.Location(comment.Pos.Start).Line
}

func (c *Context) endLine(comment syntax.Comment) int {
	return c.index.Location(comment.Pos.Last()).Line
}
