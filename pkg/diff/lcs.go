package diff

import "strings"

type line struct {
	text string
	eol  bool
}

// split breaks content into lines, remembering whether the last one was
// newline-terminated.
func split(content []byte) []line {
	if len(content) == 0 {
		return nil
	}

	parts := strings.SplitAfter(string(content), "\n")
	lines := make([]line, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		text, eol := strings.CutSuffix(part, "\n")
		lines = append(lines, line{text: text, eol: eol})
	}
	return lines
}

type op struct {
	Kind Kind
	line line
}

// script returns the edit script from a to b. Common leading and trailing
// lines are peeled off before the quadratic LCS table is built, which
// keeps typical formatter diffs cheap.
func script(a, b []line) []op {
	pre := 0
	for pre < len(a) && pre < len(b) && a[pre] == b[pre] {
		pre++
	}
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && a[len(a)-1-suf] == b[len(b)-1-suf] {
		suf++
	}

	ops := make([]op, 0, len(a)+len(b))
	for i := range pre {
		ops = append(ops, op{Kind: Context, line: a[i]})
	}

	midA, midB := a[pre:len(a)-suf], b[pre:len(b)-suf]
	ops = append(ops, lcsScript(midA, midB)...)

	for k := range suf {
		ops = append(ops, op{Kind: Context, line: a[len(a)-suf+k]})
	}
	return ops
}

// lcsScript diffs a and b with a suffix LCS table and a forward walk.
func lcsScript(a, b []line) []op {
	n, m := len(a), len(b)

	// table[i][j] is the LCS length of a[i:] and b[j:].
	table := make([][]int, n+1)
	for i := range table {
		table[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	var ops []op
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && a[i] == b[j]:
			ops = append(ops, op{Kind: Context, line: a[i]})
			i++
			j++
		case j >= m || (i < n && table[i+1][j] >= table[i][j+1]):
			ops = append(ops, op{Kind: Remove, line: a[i]})
			i++
		default:
			ops = append(ops, op{Kind: Add, line: b[j]})
			j++
		}
	}
	return ops
}

// group collects changes into hunks, merging changes whose surrounding
// context would overlap.
func group(ops []op) []Hunk {
	var hunks []Hunk

	for start := 0; start < len(ops); {
		if ops[start].Kind == Context {
			start++
			continue
		}

		// Extend end over changes separated by at most 2*ContextLines
		// unchanged lines.
		end := start
		for k := start; k < len(ops); k++ {
			if ops[k].Kind != Context {
				end = k + 1
				continue
			}
			if k-end >= 2*ContextLines {
				break
			}
		}

		hunks = append(hunks, buildHunk(ops, max(0, start-ContextLines), min(len(ops), end+ContextLines)))
		start = end
	}
	return hunks
}

func buildHunk(ops []op, from, to int) Hunk {
	var h Hunk

	// Line numbers of the first line in each file.
	oldLine, newLine := 1, 1
	for _, o := range ops[:from] {
		if o.Kind != Add {
			oldLine++
		}
		if o.Kind != Remove {
			newLine++
		}
	}

	for _, o := range ops[from:to] {
		h.Lines = append(h.Lines, Line{Kind: o.Kind, Content: o.line.text, NoEOL: !o.line.eol})
		if o.Kind != Add {
			h.OldCount++
		}
		if o.Kind != Remove {
			h.NewCount++
		}
	}

	h.OldStart, h.NewStart = oldLine, newLine
	if h.OldCount == 0 {
		h.OldStart--
	}
	if h.NewCount == 0 {
		h.NewStart--
	}
	return h
}
