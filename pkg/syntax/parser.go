package syntax

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/parenfmt/pkg/position"
)

// symbolPunctuation lists the non-alphanumeric characters allowed in symbols.
const symbolPunctuation = "+-*/<>=!?$@%_&~^.:#"

// escapable lists the characters that may follow a backslash in a string.
const escapable = `\"nrt`

// Parse parses src into a Module. It stops at the first error and never
// retries an alternative production once a list has been opened.
func Parse(src string) (*Module, error) {
	p := &parser{src: src}

	mod := &Module{}
	mod.Directives, p.pos = scanDirectives(src)

	for {
		p.skipBlank()
		if p.eof() {
			break
		}
		expr, err := p.expression(ContextModule)
		if err != nil {
			return nil, err
		}
		mod.Exprs = append(mod.Exprs, expr)
	}

	return mod, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

// skipBlank consumes whitespace and line comments.
func (p *parser) skipBlank() {
	for !p.eof() {
		switch c := p.src[p.pos]; {
		case isSpace(c):
			p.pos++
		case c == ';':
			nl := strings.IndexByte(p.src[p.pos:], '\n')
			if nl < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += nl + 1
		default:
			return
		}
	}
}

// expression parses one expression. ctx names the enclosing production and
// is reported when no expression can start at the current position.
func (p *parser) expression(ctx string) (Expr, error) {
	p.skipBlank()
	if p.eof() {
		return nil, &Error{
			Message: "unexpected end of input, expected an expression",
			Offset:  len(p.src),
			Context: ctx,
		}
	}

	switch c := p.src[p.pos]; c {
	case '(':
		return p.list()
	case '\'':
		return p.quote()
	case '"':
		return p.stringLiteral()
	}

	if p.atSymbol() {
		return p.symbol()
	}

	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return nil, &Error{
		Message: fmt.Sprintf("unexpected character %q", r),
		Offset:  p.pos,
		Context: ctx,
	}
}

func (p *parser) list() (Expr, error) {
	start := p.pos
	p.pos++ // '('

	var children []Expr
	for {
		p.skipBlank()
		if p.eof() {
			return nil, &Error{
				Message:  "unexpected end of input, expected ')' to close list",
				Offset:   len(p.src),
				Expected: ')',
				Context:  ContextList,
			}
		}
		if p.src[p.pos] == ')' {
			p.pos++
			break
		}
		if !p.atExpression() {
			r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
			return nil, &Error{
				Message:  fmt.Sprintf("expected ')' to close list, found %q", r),
				Offset:   p.pos,
				Expected: ')',
				Context:  ContextList,
			}
		}

		child, err := p.expression(ContextList)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	return &List{Children: children, Pos: position.Span{Start: start, End: p.pos}}, nil
}

func (p *parser) quote() (Expr, error) {
	start := p.pos
	p.pos++ // '\''

	inner, err := p.expression(ContextQuote)
	if err != nil {
		return nil, err
	}

	return &Quote{Inner: inner, Pos: position.Span{Start: start, End: inner.Span().End}}, nil
}

func (p *parser) stringLiteral() (Expr, error) {
	start := p.pos
	p.pos++ // opening quote

	for {
		if p.eof() {
			return nil, &Error{
				Message:  "unexpected end of input, expected '\"' to close string",
				Offset:   len(p.src),
				Expected: '"',
				Context:  ContextString,
			}
		}

		switch p.src[p.pos] {
		case '"':
			p.pos++
			return &String{
				Text: p.src[start+1 : p.pos-1],
				Pos:  position.Span{Start: start, End: p.pos},
			}, nil
		case '\\':
			if p.pos+1 >= len(p.src) {
				p.pos = len(p.src)
				continue
			}
			if strings.IndexByte(escapable, p.src[p.pos+1]) < 0 {
				r, _ := utf8.DecodeRuneInString(p.src[p.pos+1:])
				return nil, &Error{
					Message: fmt.Sprintf("invalid escape sequence \\%c in string", r),
					Offset:  p.pos,
					Context: ContextString,
				}
			}
			p.pos += 2
		default:
			p.pos++
		}
	}
}

func (p *parser) symbol() (Expr, error) {
	start := p.pos
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !isSymbolRune(r) {
			break
		}
		p.pos += size
	}

	if p.pos == start {
		return nil, &Error{
			Message: "expected a symbol",
			Offset:  start,
			Context: ContextSymbol,
		}
	}

	return &Symbol{Text: p.src[start:p.pos], Pos: position.Span{Start: start, End: p.pos}}, nil
}

// atExpression reports whether an expression can start at the current position.
func (p *parser) atExpression() bool {
	switch p.src[p.pos] {
	case '(', '\'', '"':
		return true
	}
	return p.atSymbol()
}

func (p *parser) atSymbol() bool {
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return isSymbolRune(r)
}

func isSymbolRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r) || strings.ContainsRune(symbolPunctuation, r)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isHorizontalSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\f', '\v':
		return true
	}
	return false
}

// scanDirectives consumes the '#' header lines at the very start of src and
// returns them with the offset of the first byte after them. A header line
// must end in a newline; a '#' line at end of input is left for the grammar.
func scanDirectives(src string) ([]Directive, int) {
	var directives []Directive

	pos := 0
	for pos < len(src) && src[pos] == '#' {
		nl := strings.IndexByte(src[pos:], '\n')
		if nl < 0 {
			break
		}
		text := strings.TrimRight(src[pos:pos+nl], "\r")
		directives = append(directives, Directive{
			Text: text,
			Pos:  position.Span{Start: pos, End: pos + len(text)},
		})
		pos = skipNewlines(src, pos+nl)
	}

	return directives, pos
}

// skipNewlines consumes one or more runs of optional horizontal space, a
// newline, and optional horizontal space, starting at pos.
func skipNewlines(src string, pos int) int {
	for {
		i := pos
		for i < len(src) && isHorizontalSpace(src[i]) {
			i++
		}
		if i >= len(src) || src[i] != '\n' {
			return pos
		}
		i++
		for i < len(src) && isHorizontalSpace(src[i]) {
			i++
		}
		pos = i
	}
}
