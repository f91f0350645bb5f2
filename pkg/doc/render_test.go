package doc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/parenfmt/pkg/doc"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		doc      doc.Doc
		opts     doc.Options
		expected string
	}{
		{
			name:     "text",
			doc:      doc.Text("foo"),
			expected: "foo",
		},
		{
			name:     "root line breaks",
			doc:      doc.Concat(doc.Text("a"), doc.Line{}, doc.Text("b")),
			expected: "a\nb",
		},
		{
			name:     "flatten turns lines into spaces",
			doc:      doc.Flatten{Doc: doc.Concat(doc.Text("a"), doc.Line{}, doc.Text("b"))},
			expected: "a b",
		},
		{
			name: "break inside flatten",
			doc: doc.Flatten{Doc: doc.Concat(
				doc.Text("(a"),
				doc.Break{Doc: doc.Indent{Doc: doc.Concat(doc.Line{}, doc.Text("b"))}},
				doc.Text(")"),
			)},
			expected: "(a\n  b)",
		},
		{
			name: "flatten inside break",
			doc: doc.Break{Doc: doc.Concat(
				doc.Text("a"),
				doc.Flatten{Doc: doc.Concat(doc.Line{}, doc.Text("b"))},
				doc.Line{},
				doc.Text("c"),
			)},
			expected: "a b\nc",
		},
		{
			name: "nested indent",
			doc: doc.Concat(
				doc.Text("a"),
				doc.Indent{Doc: doc.Concat(
					doc.Line{}, doc.Text("b"),
					doc.Indent{Doc: doc.Concat(doc.Line{}, doc.Text("c"))},
				)},
			),
			expected: "a\n  b\n    c",
		},
		{
			name:     "custom indent width",
			doc:      doc.Concat(doc.Text("a"), doc.Indent{Doc: doc.Concat(doc.Line{}, doc.Text("b"))}),
			opts:     doc.Options{IndentWidth: 4},
			expected: "a\n    b",
		},
		{
			name:     "tabs",
			doc:      doc.Concat(doc.Text("a"), doc.Indent{Doc: doc.Concat(doc.Line{}, doc.Text("b"))}),
			opts:     doc.Options{UseTabs: true},
			expected: "a\n\tb",
		},
		{
			name: "blank line has no trailing whitespace",
			doc: doc.Concat(
				doc.Text("a"),
				doc.Indent{Doc: doc.Concat(doc.Line{}, doc.Line{}, doc.Text("b"))},
			),
			expected: "a\n\n  b",
		},
		{
			name:     "line suffix flushed before newline",
			doc:      doc.Concat(doc.Text("a"), doc.LineSuffix(" ;x"), doc.Text(" b"), doc.Hardline(), doc.Text("c")),
			expected: "a b ;x\nc",
		},
		{
			name:     "line suffix flushed at end",
			doc:      doc.Concat(doc.Text("a"), doc.LineSuffix(" ;x")),
			expected: "a ;x",
		},
		{
			name: "flattened line does not flush suffix",
			doc: doc.Flatten{Doc: doc.Concat(
				doc.Text("a"), doc.LineSuffix(" ;x"), doc.Line{}, doc.Text("b"),
			)},
			expected: "a b ;x",
		},
		{
			name:     "multi-line text is verbatim",
			doc:      doc.Indent{Doc: doc.Concat(doc.Line{}, doc.Text("\"x\ny\""))},
			expected: "\n  \"x\ny\"",
		},
		{
			name:     "nil is ignored",
			doc:      doc.Concat(nil, doc.Text("a"), nil),
			expected: "a",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, doc.Render(testCase.doc, testCase.opts))
		})
	}
}

func TestConcat_Splices(t *testing.T) {
	t.Parallel()

	got := doc.Concat(doc.Text("a"), doc.Concat(doc.Text("b"), doc.Text("c")), nil)
	assert.Equal(t, doc.Sequence{doc.Text("a"), doc.Text("b"), doc.Text("c")}, got)
}

func TestHardline(t *testing.T) {
	t.Parallel()

	d := doc.Flatten{Doc: doc.Concat(doc.Text("a"), doc.Hardline(), doc.Text("b"))}
	assert.Equal(t, "a\nb", doc.Render(d, doc.Options{}))
}
