// Package syntax parses parenthesized source text into a positioned syntax
// tree and, separately, a flat source-ordered list of line comments.
//
// Text payloads of every node are sub-slices of the parsed source string,
// so a tree keeps its source buffer alive and never copies token text.
package syntax

import "github.com/yaklabco/parenfmt/pkg/position"

// Expr is a node of the syntax tree.
type Expr interface {
	// Span returns the byte range covered by the node, including any
	// delimiters (parentheses, quote mark, string quotes).
	Span() position.Span

	exprNode()
}

// List is a parenthesized sequence of expressions.
type List struct {
	Children []Expr
	Pos      position.Span
}

// Quote is a quote mark applied to the following expression.
// Its span runs from the quote mark through the end of Inner.
type Quote struct {
	Inner Expr
	Pos   position.Span
}

// String is a double-quoted string literal.
// Text holds the raw content between the quotes with escapes undecoded.
type String struct {
	Text string
	Pos  position.Span
}

// Symbol is a bare token such as a name, number, or keyword.
type Symbol struct {
	Text string
	Pos  position.Span
}

func (e *List) Span() position.Span   { return e.Pos }
func (e *Quote) Span() position.Span  { return e.Pos }
func (e *String) Span() position.Span { return e.Pos }
func (e *Symbol) Span() position.Span { return e.Pos }

func (*List) exprNode()   {}
func (*Quote) exprNode()  {}
func (*String) exprNode() {}
func (*Symbol) exprNode() {}

// Comment is a line comment. Value is the text after the ';' marker,
// untrimmed, up to but excluding the newline. Pos covers the marker and
// the value.
type Comment struct {
	Value string
	Pos   position.Span
}

// Directive is a '#'-prefixed header line such as a shebang or a
// "#lang" pragma. Text is the whole line without its terminator.
type Directive struct {
	Text string
	Pos  position.Span
}

// Module is the result of parsing one source buffer.
type Module struct {
	// Directives are the header lines consumed before the first expression,
	// in source order.
	Directives []Directive

	// Exprs are the top-level expressions in source order.
	Exprs []Expr
}

// Walk calls fn for expr and each of its descendants in source order.
// Returning false from fn skips the node's children.
func Walk(expr Expr, fn func(Expr) bool) {
	if expr == nil || !fn(expr) {
		return
	}
	switch node := expr.(type) {
	case *List:
		for _, child := range node.Children {
			Walk(child, fn)
		}
	case *Quote:
		Walk(node.Inner, fn)
	}
}
