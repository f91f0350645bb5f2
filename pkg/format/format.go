// Package format lays out parsed source while preserving the author's line
// structure: list elements stay on the lines they started on, blank lines
// collapse to one, and every comment is kept next to the code it annotated.
package format

import (
	"strings"

	"github.com/yaklabco/parenfmt/pkg/doc"
	"github.com/yaklabco/parenfmt/pkg/syntax"
)

// Options controls the rendered output.
type Options struct {
	// IndentWidth is the number of spaces per nesting level. Zero means
	// doc.DefaultIndentWidth.
	IndentWidth int

	// UseTabs indents with tabs instead of spaces.
	UseTabs bool
}

// DefaultOptions returns two-space indentation.
func DefaultOptions() Options {
	return Options{IndentWidth: doc.DefaultIndentWidth}
}

func (o Options) render() doc.Options {
	return doc.Options{IndentWidth: o.IndentWidth, UseTabs: o.UseTabs}
}

// Compile builds the layout tree for file. It consumes nothing outside
// file and never fails.
func Compile(file *syntax.File) doc.Doc {
	return newCompiler(file).module(file.Module.Exprs)
}

// File renders a parsed file, directives included.
func File(file *syntax.File, opts Options) string {
	var out strings.Builder

	directives := file.Module.Directives
	for _, directive := range directives {
		out.WriteString(directive.Text)
		out.WriteByte('\n')
	}

	body := doc.Render(Compile(file), opts.render())
	if len(directives) > 0 && body != "" && blankAfter(file.Source, directives[len(directives)-1]) {
		out.WriteByte('\n')
	}
	out.WriteString(body)

	return out.String()
}

// Source parses and formats src. The only error is a *syntax.Error.
func Source(src string, opts Options) (string, error) {
	file, err := syntax.ParseFile(src)
	if err != nil {
		return "", err
	}
	return File(file, opts), nil
}

// blankAfter reports whether at least one empty line separates directive
// from the code that follows it.
func blankAfter(src string, directive syntax.Directive) bool {
	rest := src[directive.Pos.End:]
	code := strings.TrimLeft(rest, " \t\r\n\f\v")
	return strings.Count(rest[:len(rest)-len(code)], "\n") > 1
}
