package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/parenfmt/internal/ui/pretty"
	"github.com/yaklabco/parenfmt/pkg/diff"
	"github.com/yaklabco/parenfmt/pkg/runner"
)

// DiffReporter formats results as unified diffs in git style.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var filesWithDiffs int
	var totalAdditions, totalDeletions int

	for _, file := range result.Files {
		path := displayPath(r.opts.WorkingDir, file.Path)

		if file.Error != nil {
			_, line, column := location(file.Error)
			fmt.Fprint(r.bw, r.styles.FormatProblem(path, line, column, "error", message(file.Error)))
			continue
		}

		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}

		filesWithDiffs++
		totalAdditions += file.Result.Diff.Additions
		totalDeletions += file.Result.Diff.Deletions
		r.writeDiff(path, file.Result.Diff)
	}

	if filesWithDiffs > 0 && r.opts.ShowSummary {
		r.writeSummary(filesWithDiffs, totalAdditions, totalDeletions)
	}

	return attention(result), nil
}

// writeDiff outputs a single file's diff.
func (r *DiffReporter) writeDiff(path string, d *diff.Diff) {
	fmt.Fprintln(r.bw, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", path, path)))
	fmt.Fprintln(r.bw, r.styles.DiffRemove.Render("--- a/"+path))
	fmt.Fprintln(r.bw, r.styles.DiffAdd.Render("+++ b/"+path))

	for _, hunk := range d.Hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
		fmt.Fprintln(r.bw, r.styles.DiffHunk.Render(header))

		for _, line := range hunk.Lines {
			switch line.Kind {
			case diff.Add:
				fmt.Fprintln(r.bw, r.styles.DiffAdd.Render("+"+line.Content))
			case diff.Remove:
				fmt.Fprintln(r.bw, r.styles.DiffRemove.Render("-"+line.Content))
			default:
				fmt.Fprintln(r.bw, r.styles.DiffContext.Render(" "+line.Content))
			}
			if line.NoEOL {
				fmt.Fprintln(r.bw, r.styles.Dim.Render(`\ No newline at end of file`))
			}
		}
	}

	fmt.Fprintln(r.bw)
}

// writeSummary writes a git-style shortstat line.
func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	parts := []string{pretty.Plural(files, "file") + " changed"}

	if additions > 0 {
		word := "insertions"
		if additions == 1 {
			word = "insertion"
		}
		parts = append(parts, r.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)", additions, word)))
	}

	if deletions > 0 {
		word := "deletions"
		if deletions == 1 {
			word = "deletion"
		}
		parts = append(parts, r.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)", deletions, word)))
	}

	fmt.Fprintln(r.bw, strings.Join(parts, ", "))
}
