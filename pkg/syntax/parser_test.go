package syntax_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/parenfmt/pkg/position"
	"github.com/yaklabco/parenfmt/pkg/syntax"
)

func span(start, end int) position.Span {
	return position.Span{Start: start, End: end}
}

func TestParse_Expressions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		expected []syntax.Expr
	}{
		{
			name:     "empty",
			src:      "",
			expected: nil,
		},
		{
			name:     "symbol",
			src:      "foo",
			expected: []syntax.Expr{&syntax.Symbol{Text: "foo", Pos: span(0, 3)}},
		},
		{
			name: "symbol punctuation",
			src:  "a->b? +1 #:key",
			expected: []syntax.Expr{
				&syntax.Symbol{Text: "a->b?", Pos: span(0, 5)},
				&syntax.Symbol{Text: "+1", Pos: span(6, 8)},
				&syntax.Symbol{Text: "#:key", Pos: span(9, 14)},
			},
		},
		{
			name:     "unicode symbol",
			src:      "λx",
			expected: []syntax.Expr{&syntax.Symbol{Text: "λx", Pos: span(0, 3)}},
		},
		{
			name: "list",
			src:  "(foo bar)",
			expected: []syntax.Expr{
				&syntax.List{
					Pos: span(0, 9),
					Children: []syntax.Expr{
						&syntax.Symbol{Text: "foo", Pos: span(1, 4)},
						&syntax.Symbol{Text: "bar", Pos: span(5, 8)},
					},
				},
			},
		},
		{
			name:     "empty list",
			src:      "( )",
			expected: []syntax.Expr{&syntax.List{Pos: span(0, 3)}},
		},
		{
			name: "quote",
			src:  "'foo",
			expected: []syntax.Expr{
				&syntax.Quote{
					Pos:   span(0, 4),
					Inner: &syntax.Symbol{Text: "foo", Pos: span(1, 4)},
				},
			},
		},
		{
			name: "quote with space",
			src:  "' (a)",
			expected: []syntax.Expr{
				&syntax.Quote{
					Pos: span(0, 5),
					Inner: &syntax.List{
						Pos:      span(2, 5),
						Children: []syntax.Expr{&syntax.Symbol{Text: "a", Pos: span(3, 4)}},
					},
				},
			},
		},
		{
			name:     "string keeps escapes raw",
			src:      `"a\"b\n"`,
			expected: []syntax.Expr{&syntax.String{Text: `a\"b\n`, Pos: span(0, 8)}},
		},
		{
			name:     "string with semicolon",
			src:      `"a;b"`,
			expected: []syntax.Expr{&syntax.String{Text: "a;b", Pos: span(0, 5)}},
		},
		{
			name: "comments are skipped",
			src:  "; lead\nfoo ; tail\nbar",
			expected: []syntax.Expr{
				&syntax.Symbol{Text: "foo", Pos: span(7, 10)},
				&syntax.Symbol{Text: "bar", Pos: span(18, 21)},
			},
		},
		{
			name: "nested",
			src:  "(a (b) 'c)",
			expected: []syntax.Expr{
				&syntax.List{
					Pos: span(0, 10),
					Children: []syntax.Expr{
						&syntax.Symbol{Text: "a", Pos: span(1, 2)},
						&syntax.List{
							Pos:      span(3, 6),
							Children: []syntax.Expr{&syntax.Symbol{Text: "b", Pos: span(4, 5)}},
						},
						&syntax.Quote{
							Pos:   span(7, 9),
							Inner: &syntax.Symbol{Text: "c", Pos: span(8, 9)},
						},
					},
				},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			mod, err := syntax.Parse(testCase.src)
			require.NoError(t, err)

			if diff := cmp.Diff(testCase.expected, mod.Exprs); diff != "" {
				t.Errorf("unexpected tree (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Directives(t *testing.T) {
	t.Parallel()

	src := "#!/usr/bin/env racket\n#lang racket\n\n(foo)\n"

	mod, err := syntax.Parse(src)
	require.NoError(t, err)

	require.Len(t, mod.Directives, 2)
	assert.Equal(t, "#!/usr/bin/env racket", mod.Directives[0].Text)
	assert.Equal(t, "#lang racket", mod.Directives[1].Text)
	assert.Equal(t, span(22, 34), mod.Directives[1].Pos)

	require.Len(t, mod.Exprs, 1)
	assert.Equal(t, span(36, 41), mod.Exprs[0].Span())
}

func TestParse_HashWithoutNewlineIsSymbol(t *testing.T) {
	t.Parallel()

	mod, err := syntax.Parse("#t")
	require.NoError(t, err)

	assert.Empty(t, mod.Directives)
	require.Len(t, mod.Exprs, 1)
	assert.Equal(t, &syntax.Symbol{Text: "#t", Pos: span(0, 2)}, mod.Exprs[0])
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		offset   int
		expected rune
		context  string
	}{
		{"unclosed list", "(foo bar", 8, ')', syntax.ContextList},
		{"unclosed nested list", "(a (b)\n", 7, ')', syntax.ContextList},
		{"bad character in list", "(foo ]", 5, ')', syntax.ContextList},
		{"stray close paren", "foo)", 3, 0, syntax.ContextModule},
		{"quote without expression", "'", 1, 0, syntax.ContextQuote},
		{"quote before close paren", "(a ')", 4, 0, syntax.ContextQuote},
		{"unterminated string", `"abc`, 4, '"', syntax.ContextString},
		{"backslash at end of input", `"abc\`, 5, '"', syntax.ContextString},
		{"invalid escape", `"a\qb"`, 2, 0, syntax.ContextString},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			mod, err := syntax.Parse(testCase.src)
			require.Error(t, err)
			assert.Nil(t, mod)
			assert.ErrorIs(t, err, syntax.ErrSyntax)

			var synErr *syntax.Error
			require.True(t, errors.As(err, &synErr))
			assert.Equal(t, testCase.offset, synErr.Offset)
			assert.Equal(t, testCase.expected, synErr.Expected)
			assert.Equal(t, testCase.context, synErr.Context)
			assert.NotEmpty(t, synErr.Message)
		})
	}
}

func TestError_Location(t *testing.T) {
	t.Parallel()

	src := "(foo\n  (bar"
	_, err := syntax.Parse(src)

	var synErr *syntax.Error
	require.ErrorAs(t, err, &synErr)

	loc := synErr.Location(position.NewIndex(src))
	assert.Equal(t, "2:7", loc.String())
	assert.Contains(t, synErr.Error(), "offset 11")
}

func TestError_Location_TrailingNewline(t *testing.T) {
	t.Parallel()

	src := "(ok)\n(bad \"open\n"
	_, err := syntax.Parse(src)

	var synErr *syntax.Error
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, len(src), synErr.Offset)

	loc := synErr.Location(position.NewIndex(src))
	assert.Equal(t, "2:11", loc.String())
}

func TestWalk(t *testing.T) {
	t.Parallel()

	mod, err := syntax.Parse("(a '(b c) \"d\")")
	require.NoError(t, err)

	var symbols []string
	syntax.Walk(mod.Exprs[0], func(expr syntax.Expr) bool {
		if sym, ok := expr.(*syntax.Symbol); ok {
			symbols = append(symbols, sym.Text)
		}
		return true
	})

	assert.Equal(t, []string{"a", "b", "c"}, symbols)
}
