package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/parenfmt/pkg/syntax"
)

func TestComments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		expected []syntax.Comment
	}{
		{
			name:     "no comments",
			src:      "(foo bar)",
			expected: nil,
		},
		{
			name: "leading and trailing",
			src:  ";bar\nfoo ; baz  \n",
			expected: []syntax.Comment{
				{Value: "bar", Pos: span(0, 4)},
				{Value: " baz  ", Pos: span(9, 16)},
			},
		},
		{
			name: "semicolon inside string is not a comment",
			src:  "(\"a;b\" ;c\n)",
			expected: []syntax.Comment{
				{Value: "c", Pos: span(7, 9)},
			},
		},
		{
			name: "escaped quote inside string",
			src:  `"a\";b" ;x`,
			expected: []syntax.Comment{
				{Value: "x", Pos: span(8, 10)},
			},
		},
		{
			name: "comment at end of input without newline",
			src:  "foo ;end",
			expected: []syntax.Comment{
				{Value: "end", Pos: span(4, 8)},
			},
		},
		{
			name: "double semicolon keeps second marker in value",
			src:  ";; section\n",
			expected: []syntax.Comment{
				{Value: "; section", Pos: span(0, 10)},
			},
		},
		{
			name: "directive lines are skipped",
			src:  "#!/bin/sh ; not a comment\n; real\nfoo",
			expected: []syntax.Comment{
				{Value: " real", Pos: span(26, 32)},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			comments, err := syntax.Comments(testCase.src)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, comments)
		})
	}
}

func TestComments_SourceOrder(t *testing.T) {
	t.Parallel()

	src := "; a\n(foo ; b\n  ; c\n  bar) ; d\n; e\n"

	comments, err := syntax.Comments(src)
	require.NoError(t, err)
	require.Len(t, comments, 5)

	for i := 1; i < len(comments); i++ {
		assert.Less(t, comments[i-1].Pos.Start, comments[i].Pos.Start)
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	src := "; header\n(foo\n bar) ; tail\n"

	file, err := syntax.ParseFile(src)
	require.NoError(t, err)

	assert.Equal(t, src, file.Source)
	assert.Len(t, file.Module.Exprs, 1)
	assert.Len(t, file.Comments, 2)
	assert.Equal(t, 4, file.Index.LineCount())
	assert.Equal(t, 2, file.Line(file.Comments[1].Pos.Start))
}

func TestParseFile_SyntaxError(t *testing.T) {
	t.Parallel()

	file, err := syntax.ParseFile("(foo")
	require.ErrorIs(t, err, syntax.ErrSyntax)
	assert.Nil(t, file)
}
