package syntax

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/yaklabco/parenfmt/pkg/position"
)

// commentLexer splits source into line comments, string literals, and
// single characters. Rules are tried in order, so a ';' inside a string
// literal is consumed by the String rule before Comment can see it.
//
//nolint:gochecknoglobals // Compiled once; read-only afterwards.
var commentLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Char", Pattern: `[\s\S]`},
})

//nolint:gochecknoglobals // Token type lookup for commentLexer.
var commentToken = commentLexer.Symbols()["Comment"]

// Comments extracts every line comment in src, in source order.
// Header directives are skipped the same way Parse skips them.
func Comments(src string) ([]Comment, error) {
	_, start := scanDirectives(src)

	lex, err := commentLexer.LexString("", src[start:])
	if err != nil {
		return nil, fmt.Errorf("scan comments: %w", err)
	}

	var comments []Comment
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, fmt.Errorf("scan comments: %w", err)
		}
		if tok.EOF() {
			break
		}
		if tok.Type != commentToken {
			continue
		}

		offset := start + tok.Pos.Offset
		end := offset + len(tok.Value)
		comments = append(comments, Comment{
			Value: src[offset+1 : end],
			Pos:   position.Span{Start: offset, End: end},
		})
	}

	return comments, nil
}
