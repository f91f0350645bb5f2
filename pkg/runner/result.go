package runner

import (
	"time"

	"github.com/yaklabco/parenfmt/pkg/pipeline"
)

// FileOutcome pairs a discovered path with what happened to it.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result is nil when Error is set.
	Result *pipeline.Result

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int

	// FilesChanged counts files whose formatted content differs from the
	// original, written or not.
	FilesChanged int
	FilesWritten int
	FilesCached  int
	FilesSkipped int
	FilesErrored int

	// BlocksFormatted and BlocksFailed count Markdown code blocks.
	BlocksFormatted int
	BlocksFailed    int

	Duration time.Duration
}

// Result is the overall runner result.
type Result struct {
	// RunID identifies this run in logs and JSON reports.
	RunID string

	// Files contains the outcome for each discovered file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file could not be processed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// HasUnformatted reports whether any file still differs from its
// formatted form on disk.
func (r *Result) HasUnformatted() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesChanged > r.Stats.FilesWritten
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	res := outcome.Result
	if res == nil {
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.BlocksFormatted += res.Blocks - len(res.BlockErrors)
	r.Stats.BlocksFailed += len(res.BlockErrors)

	switch {
	case res.Cached:
		r.Stats.FilesCached++
	case res.Skipped:
		r.Stats.FilesSkipped++
	}
	if res.Changed && !res.Skipped {
		r.Stats.FilesChanged++
	}
	if res.Written {
		r.Stats.FilesWritten++
	}
}
