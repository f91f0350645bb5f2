// Package markdown formats Lisp code embedded in Markdown fenced code
// blocks, leaving every other byte of the document alone.
package markdown

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/parenfmt/pkg/dialect"
	"github.com/yaklabco/parenfmt/pkg/edit"
	"github.com/yaklabco/parenfmt/pkg/position"
)

// Formatter formats the body of one code block.
type Formatter func(d dialect.Dialect, code string) (string, error)

// BlockError reports a code block that could not be formatted. The block
// is left as it was.
type BlockError struct {
	// Line is the 1-based line of the first code line.
	Line    int
	Dialect dialect.Dialect
	Err     error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("line %d: %s block: %v", e.Line, e.Dialect, e.Err)
}

func (e *BlockError) Unwrap() error { return e.Err }

// Result is the outcome of FormatCodeBlocks.
type Result struct {
	// Content is the rewritten document.
	Content []byte

	// Blocks counts the code blocks that were handed to the formatter.
	Blocks int

	// Failed lists blocks the formatter rejected.
	Failed []*BlockError
}

// block is a replaceable byte range holding code.
type block struct {
	start, stop int
	dialect     dialect.Dialect
}

// FormatCodeBlocks rewrites fenced code blocks whose info string names a
// supported dialect. Blocks nested in lists or quotes are skipped, since
// their lines carry a prefix the formatter would not reproduce.
func FormatCodeBlocks(src []byte, format Formatter) (Result, error) {
	blocks := findBlocks(src)
	result := Result{Content: src}
	if len(blocks) == 0 {
		return result, nil
	}

	index := position.NewIndex(string(src))
	edits := make([]edit.Edit, 0, len(blocks))

	for _, b := range blocks {
		result.Blocks++

		code := string(src[b.start:b.stop])
		formatted, err := format(b.dialect, code)
		if err != nil {
			result.Failed = append(result.Failed, &BlockError{
				Line:    index.Location(b.start).Line + 1,
				Dialect: b.dialect,
				Err:     err,
			})
			continue
		}
		if formatted == "" || formatted == code {
			continue
		}

		edits = append(edits, edit.Replace(b.start, b.stop, formatted))
	}

	content, err := edit.Apply(src, edits)
	if err != nil {
		return result, fmt.Errorf("splice code blocks: %w", err)
	}
	result.Content = content
	return result, nil
}

func findBlocks(src []byte) []block {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		d, ok := dialect.FromAlias(string(fence.Language(src)))
		if !ok {
			return ast.WalkSkipChildren, nil
		}
		if start, stop, ok := contiguous(src, fence.Lines()); ok {
			blocks = append(blocks, block{start: start, stop: stop, dialect: d})
		}
		return ast.WalkSkipChildren, nil
	})

	return blocks
}

// contiguous returns the byte range covered by lines when they form one
// unbroken, unindented, newline-terminated run of source.
func contiguous(src []byte, lines *text.Segments) (int, int, bool) {
	if lines.Len() == 0 {
		return 0, 0, false
	}

	first := lines.At(0)
	if first.Start > 0 && src[first.Start-1] != '\n' {
		return 0, 0, false
	}

	stop := first.Start
	for i := range lines.Len() {
		seg := lines.At(i)
		if seg.Start != stop || seg.Padding != 0 {
			return 0, 0, false
		}
		stop = seg.Stop
	}

	if stop == 0 || src[stop-1] != '\n' {
		return 0, 0, false
	}
	return first.Start, stop, true
}
