// Package reporter writes run results as text, JSON, or unified diffs.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/parenfmt/pkg/config"
	"github.com/yaklabco/parenfmt/pkg/pipeline"
	"github.com/yaklabco/parenfmt/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes output for result. It returns the number of files
	// that need attention: unformatted files plus failures.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	switch opts.Format {
	case config.FormatText, "":
		return NewTextReporter(opts), nil
	case config.FormatJSON:
		return NewJSONReporter(opts), nil
	case config.FormatDiff:
		return NewDiffReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

// attention counts files that are unformatted on disk or failed.
func attention(result *runner.Result) int {
	if result == nil {
		return 0
	}
	return result.Stats.FilesChanged - result.Stats.FilesWritten + result.Stats.FilesErrored
}

// displayPath makes path relative to workDir when that does not climb out
// of it.
func displayPath(workDir, path string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// location returns the 1-based line and column of a parse error, or
// zeros for other errors.
func location(err error) (*pipeline.ParseError, int, int) {
	var parseErr *pipeline.ParseError
	if !errors.As(err, &parseErr) {
		return nil, 0, 0
	}
	return parseErr, parseErr.Location.Line + 1, parseErr.Location.Column + 1
}

// message is the error text shown next to a location.
func message(err error) string {
	if parseErr, _, _ := location(err); parseErr != nil {
		return parseErr.Err.Message
	}
	return err.Error()
}
