package format

import (
	"strings"
	"unicode"

	"github.com/yaklabco/parenfmt/pkg/doc"
	"github.com/yaklabco/parenfmt/pkg/position"
	"github.com/yaklabco/parenfmt/pkg/syntax"
)

// compiler turns a parsed file into a layout tree. Its only state is the
// comment cursor, so one compiler serves exactly one pass over one file.
type compiler struct {
	index *position.Index
	ctx   *Context
}

func newCompiler(file *syntax.File) *compiler {
	return &compiler{
		index: file.Index,
		ctx:   NewContext(file.Comments, file.Index),
	}
}

// module lays out the top-level expressions, then whatever comments are
// left after the last one.
func (c *compiler) module(exprs []syntax.Expr) doc.Doc {
	parts := make([]doc.Doc, 0, 4)

	if len(exprs) > 0 {
		parts = append(parts, c.expressions(exprs), doc.Hardline())
	}

	if rest := c.ctx.DrainRemaining(); len(rest) > 0 {
		if len(exprs) > 0 {
			parts = append(parts, doc.Hardline())
		}
		parts = append(parts, c.commentBlock(rest, -1))
	}

	return doc.Concat(parts...)
}

// expressions separates siblings with a Line, doubled when the source had
// at least one blank line between them.
func (c *compiler) expressions(exprs []syntax.Expr) doc.Doc {
	parts := make([]doc.Doc, 0, 3*len(exprs))
	for i, expr := range exprs {
		if i > 0 {
			parts = append(parts, doc.Line{})
			if c.gap(exprs[i-1], expr) {
				parts = append(parts, doc.Line{})
			}
		}
		parts = append(parts, c.expression(expr))
	}
	return doc.Concat(parts...)
}

// expression emits the comments leading up to expr, expr itself, and the
// comments sharing its first line.
func (c *compiler) expression(expr syntax.Expr) doc.Doc {
	start := c.startLine(expr)

	leading := c.commentBlock(c.ctx.DrainBefore(start), start)
	body := c.variant(expr)
	trailing := c.suffix(c.ctx.DrainCurrent(start))

	return doc.Concat(leading, body, trailing)
}

func (c *compiler) variant(expr syntax.Expr) doc.Doc {
	switch e := expr.(type) {
	case *syntax.Symbol:
		return doc.Text(e.Text)
	case *syntax.String:
		return doc.Text(`"` + e.Text + `"`)
	case *syntax.Quote:
		return c.quote(e)
	case *syntax.List:
		return c.list(e)
	default:
		return nil
	}
}

// quote keeps the operand next to its quote mark when both start on the
// same line. An operand that started on a later line goes on its own
// indented line, after any comments that sat between the two.
func (c *compiler) quote(q *syntax.Quote) doc.Doc {
	mark := c.startLine(q)
	if c.startLine(q.Inner) == mark {
		return doc.Concat(doc.Text("'"), c.expression(q.Inner))
	}

	trailing := c.suffix(c.ctx.DrainCurrent(mark))
	operand := doc.Indent{Doc: doc.Concat(doc.Line{}, c.expression(q.Inner))}
	return doc.Concat(doc.Text("'"), trailing, doc.Break{Doc: operand})
}

// list keeps the children that start on the opening line together and
// puts every later child on its own indented line.
func (c *compiler) list(list *syntax.List) doc.Doc {
	open := c.startLine(list)

	split := 0
	for split < len(list.Children) && c.startLine(list.Children[split]) == open {
		split++
	}
	head, tail := list.Children[:split], list.Children[split:]

	parts := []doc.Doc{
		doc.Text("("),
		c.commentBlock(c.ctx.DrainBefore(open), open),
		c.expressions(head),
	}

	if len(tail) > 0 {
		var body []doc.Doc
		if len(head) > 0 && c.gap(head[len(head)-1], tail[0]) {
			body = append(body, doc.Line{})
		}
		body = append(body, doc.Line{}, c.expressions(tail))
		parts = append(parts, doc.Break{Doc: doc.Indent{Doc: doc.Concat(body...)}})
	}

	parts = append(parts, doc.Text(")"))

	return doc.Flatten{Doc: doc.Concat(parts...)}
}

// commentBlock renders comments on their own lines. boundary is the start
// line of whatever follows the block, or negative when nothing does.
func (c *compiler) commentBlock(comments []syntax.Comment, boundary int) doc.Doc {
	if len(comments) == 0 {
		return nil
	}

	parts := make([]doc.Doc, 0, 3*len(comments))
	for i, comment := range comments {
		parts = append(parts, doc.Text(";"+trimComment(comment.Value)), doc.Hardline())

		next := boundary
		if i+1 < len(comments) {
			next = c.ctx.startLine(comments[i+1])
		}
		if next >= 0 && next-c.ctx.endLine(comment) > 1 {
			parts = append(parts, doc.Hardline())
		}
	}
	return doc.Concat(parts...)
}

func (c *compiler) suffix(comments []syntax.Comment) doc.Doc {
	if len(comments) == 0 {
		return nil
	}

	parts := make([]doc.Doc, 0, len(comments))
	for _, comment := range comments {
		parts = append(parts, doc.LineSuffix(" ;"+trimComment(comment.Value)))
	}
	return doc.Concat(parts...)
}

// gap reports whether a blank line separates prev from the next item. The
// next item is next itself, or the first comment still waiting to lead it.
func (c *compiler) gap(prev, next syntax.Expr) bool {
	line := c.startLine(next)
	if pending := c.ctx.PeekBefore(line); len(pending) > 0 {
		line = c.ctx.startLine(pending[0])
	}
	return line-c.endLine(prev) > 1
}

func (c *compiler) startLine(expr syntax.Expr) int {
	return c.index.Location(expr.Span().Start).Line
}

func (c *compiler) endLine(expr syntax.Expr) int {
	return c.index.Location(expr.Span().Last()).Line
}

func trimComment(value string) string {
	return strings.TrimRightFunc(value, unicode.IsSpace)
}
