package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/parenfmt/internal/ui/pretty"
	"github.com/yaklabco/parenfmt/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	for _, file := range result.Files {
		r.writeFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return attention(result), nil
}

func (r *TextReporter) writeFile(file runner.FileOutcome) {
	path := displayPath(r.opts.WorkingDir, file.Path)

	if file.Error != nil {
		parseErr, line, column := location(file.Error)
		fmt.Fprint(r.bw, r.styles.FormatProblem(path, line, column, "error", message(file.Error)))
		if parseErr != nil && r.opts.ShowContext && parseErr.SourceLine != "" {
			fmt.Fprint(r.bw, r.styles.FormatSourceContext(parseErr.SourceLine, column))
		}
		return
	}

	res := file.Result
	if res == nil {
		return
	}

	for _, blockErr := range res.BlockErrors {
		msg := fmt.Sprintf("%s code block left unformatted: %v", blockErr.Dialect, blockErr.Err)
		fmt.Fprint(r.bw, r.styles.FormatProblem(path, blockErr.Line, 1, "warning", msg))
	}

	if res.Written || res.Changed || r.opts.Verbose {
		fmt.Fprint(r.bw, r.styles.FormatStatus(path, res.Summary()))
	}
}
