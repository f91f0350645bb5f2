package doc

import "strings"

// DefaultIndentWidth is the number of spaces per indentation level.
const DefaultIndentWidth = 2

// Options controls rendering.
type Options struct {
	// IndentWidth is the number of spaces per level. Zero or negative
	// means DefaultIndentWidth.
	IndentWidth int

	// UseTabs indents with one tab per level instead of spaces.
	UseTabs bool
}

// Render turns d into text. The root of the tree is in breaking mode, so
// top-level Lines are newlines.
func Render(d Doc, opts Options) string {
	r := &renderer{unit: indentUnit(opts)}
	r.render(d, mode{breaking: true})
	r.flushSuffix()
	return r.out.String()
}

func indentUnit(opts Options) string {
	if opts.UseTabs {
		return "\t"
	}
	width := opts.IndentWidth
	if width <= 0 {
		width = DefaultIndentWidth
	}
	return strings.Repeat(" ", width)
}

// mode is the evaluation context threaded through the tree.
type mode struct {
	breaking bool
	indent   int
}

type renderer struct {
	out    strings.Builder
	suffix strings.Builder
	unit   string

	// atLineStart defers indentation until text is written, so blank
	// lines carry no trailing whitespace.
	atLineStart bool
	lineIndent  int
}

func (r *renderer) render(d Doc, m mode) {
	switch v := d.(type) {
	case nil:
	case Text:
		r.write(string(v))
	case Line:
		if m.breaking {
			r.newline(m.indent)
		} else {
			r.write(" ")
		}
	case Sequence:
		for _, child := range v {
			r.render(child, m)
		}
	case Indent:
		m.indent++
		r.render(v.Doc, m)
	case Flatten:
		m.breaking = false
		r.render(v.Doc, m)
	case Break:
		m.breaking = true
		r.render(v.Doc, m)
	case LineSuffix:
		r.suffix.WriteString(string(v))
	}
}

func (r *renderer) write(s string) {
	if s == "" {
		return
	}
	if r.atLineStart {
		for range r.lineIndent {
			r.out.WriteString(r.unit)
		}
		r.atLineStart = false
	}
	r.out.WriteString(s)
}

func (r *renderer) newline(indent int) {
	r.flushSuffix()
	r.out.WriteByte('\n')
	r.atLineStart = true
	r.lineIndent = indent
}

func (r *renderer) flushSuffix() {
	if r.suffix.Len() == 0 {
		return
	}
	pending := r.suffix.String()
	r.suffix.Reset()
	r.write(pending)
}
