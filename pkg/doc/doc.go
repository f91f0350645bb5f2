// Package doc defines the layout-instruction tree produced by the formatter
// and the renderer that turns it into text.
//
// A Doc never measures widths. Whether a soft Line becomes a space or a
// newline is decided only by the nearest enclosing Flatten or Break node.
package doc

// Doc is a node of the layout tree.
type Doc interface {
	doc()
}

// Text is literal output. It may contain newlines (multi-line string
// literals), which are written verbatim without indentation.
type Text string

// Line is a soft break: a space when flattened, a newline when broken.
type Line struct{}

// Sequence concatenates its children.
type Sequence []Doc

// Indent renders its child one indentation level deeper. The extra level
// applies to lines started inside the child.
type Indent struct {
	Doc Doc
}

// Flatten renders Lines in its child as spaces, unless a nested Break
// re-establishes newlines for its own subtree.
type Flatten struct {
	Doc Doc
}

// Break renders Lines in its child as newlines, even inside a Flatten.
type Break struct {
	Doc Doc
}

// LineSuffix is text deferred to the end of the current output line.
type LineSuffix string

func (Text) doc()       {}
func (Line) doc()       {}
func (Sequence) doc()   {}
func (Indent) doc()     {}
func (Flatten) doc()    {}
func (Break) doc()      {}
func (LineSuffix) doc() {}

// Hardline is a Line that always breaks.
func Hardline() Doc {
	return Break{Doc: Line{}}
}

// Concat builds a Sequence, dropping nil entries and splicing nested
// sequences so trees stay shallow.
func Concat(docs ...Doc) Doc {
	out := make(Sequence, 0, len(docs))
	for _, d := range docs {
		switch v := d.(type) {
		case nil:
		case Sequence:
			out = append(out, v...)
		default:
			out = append(out, v)
		}
	}
	return out
}
