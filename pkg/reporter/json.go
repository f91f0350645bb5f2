package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/parenfmt/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	RunID   string           `json:"runId,omitempty"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path        string      `json:"path"`
	Status      string      `json:"status"`
	Dialect     string      `json:"dialect,omitempty"`
	Changed     bool        `json:"changed"`
	Written     bool        `json:"written"`
	Cached      bool        `json:"cached,omitempty"`
	Diff        string      `json:"diff,omitempty"`
	Error       *JSONError  `json:"error,omitempty"`
	BlockErrors []JSONError `json:"blockErrors,omitempty"`
}

// JSONError locates a failure. Line and Column are 1-based and omitted
// when unknown.
type JSONError struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked int   `json:"filesChecked"`
	FilesChanged int   `json:"filesChanged"`
	FilesWritten int   `json:"filesWritten"`
	FilesCached  int   `json:"filesCached"`
	FilesSkipped int   `json:"filesSkipped"`
	FilesErrored int   `json:"filesErrored"`
	DurationMS   int64 `json:"durationMs"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return attention(result), nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.RunID = result.RunID
	output.Summary = JSONSummary{
		FilesChecked: result.Stats.FilesProcessed + result.Stats.FilesErrored,
		FilesChanged: result.Stats.FilesChanged,
		FilesWritten: result.Stats.FilesWritten,
		FilesCached:  result.Stats.FilesCached,
		FilesSkipped: result.Stats.FilesSkipped,
		FilesErrored: result.Stats.FilesErrored,
		DurationMS:   result.Stats.Duration.Milliseconds(),
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path: displayPath(r.opts.WorkingDir, file.Path),
		}

		if file.Error != nil {
			_, line, column := location(file.Error)
			fileResult.Status = "error"
			fileResult.Error = &JSONError{Message: message(file.Error), Line: line, Column: column}
		}

		if res := file.Result; res != nil {
			fileResult.Status = res.Summary()
			fileResult.Dialect = string(res.Dialect)
			fileResult.Changed = res.Changed
			fileResult.Written = res.Written
			fileResult.Cached = res.Cached
			if res.Diff.HasChanges() {
				fileResult.Diff = res.Diff.String()
			}
			for _, blockErr := range res.BlockErrors {
				fileResult.BlockErrors = append(fileResult.BlockErrors, JSONError{
					Message: blockErr.Err.Error(),
					Line:    blockErr.Line,
				})
			}
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}
