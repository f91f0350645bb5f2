package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/parenfmt/internal/logging"
	"github.com/yaklabco/parenfmt/pkg/pipeline"
)

// Processor formats one file. *pipeline.Pipeline implements it.
type Processor interface {
	ProcessFile(ctx context.Context, path string) (*pipeline.Result, error)
}

// Runner orchestrates multi-file formatting.
type Runner struct {
	// Processor handles per-file processing with safety guarantees.
	Processor Processor
}

// New creates a new Runner with the given processor.
func New(processor Processor) *Runner {
	return &Runner{Processor: processor}
}

// Run discovers files under opts.Paths and processes them concurrently.
// Per-file failures are recorded in the result; the returned error is
// reserved for discovery failures and cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.ProcessFiles(ctx, files, opts.Jobs)
}

// ProcessFiles processes an already discovered list of files with at most
// jobs workers. Outcomes keep the order of files.
func (r *Runner) ProcessFiles(ctx context.Context, files []string, jobs int) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := logging.FromContext(ctx).With(logging.FieldRunID, runID)
	ctx = logging.WithLogger(ctx, logger)

	result := &Result{
		RunID: runID,
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)
	logger.Debug("processing files", logging.FieldFilesDiscovered, len(files))

	if len(files) == 0 {
		return result, nil
	}

	outcomes := r.process(ctx, files, jobCount(jobs, len(files)))
	for _, outcome := range outcomes {
		if outcome.Path == "" {
			// Never reached because the run was cancelled.
			continue
		}
		result.accumulate(outcome)
	}
	result.Stats.Duration = time.Since(start)

	logger.Debug("run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesWritten, result.Stats.FilesWritten,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
		logging.FieldDuration, result.Stats.Duration,
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// process runs the processor over files with at most jobs in flight.
// Outcomes are stored by index, so the order matches files.
func (r *Runner) process(ctx context.Context, files []string, jobs int) []FileOutcome {
	outcomes := make([]FileOutcome, len(files))

	var group errgroup.Group
	group.SetLimit(jobs)

	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcome := FileOutcome{Path: path}
			res, err := r.Processor.ProcessFile(ctx, path)
			if err != nil {
				outcome.Error = err
				logging.FromContext(ctx).Debug("file failed",
					logging.FieldPath, path,
					logging.FieldError, err,
				)
			} else {
				outcome.Result = res
			}
			outcomes[i] = outcome
			return nil
		})
	}

	_ = group.Wait()
	return outcomes
}

// jobCount bounds the worker count by the number of files.
func jobCount(jobs, files int) int {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return min(jobs, files)
}
