package runner_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/parenfmt/pkg/config"
	"github.com/yaklabco/parenfmt/pkg/pipeline"
	"github.com/yaklabco/parenfmt/pkg/runner"
)

func TestRunner_Run_Check(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, map[string]string{
		"a.scm": "(a\n  b)\n",
		"b.scm": "(a\nb)\n",
		"c.scm": "(broken\n",
	})

	opts := pipeline.DefaultOptions()
	opts.Diff = true

	result, err := runner.New(pipeline.New(opts)).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Extensions: config.DefaultExtensions(),
	})
	require.NoError(t, err)

	_, parseErr := uuid.Parse(result.RunID)
	require.NoError(t, parseErr)

	require.Len(t, result.Files, 3)
	assert.Equal(t, abs(dir, "a.scm", "b.scm", "c.scm"),
		[]string{result.Files[0].Path, result.Files[1].Path, result.Files[2].Path})

	assert.False(t, result.Files[0].Result.Changed)
	assert.True(t, result.Files[1].Result.Changed)
	require.ErrorIs(t, result.Files[2].Error, pipeline.ErrParseFailure)

	assert.Equal(t, 3, result.Stats.FilesDiscovered)
	assert.Equal(t, 2, result.Stats.FilesProcessed)
	assert.Equal(t, 1, result.Stats.FilesChanged)
	assert.Equal(t, 0, result.Stats.FilesWritten)
	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.True(t, result.HasUnformatted())
	assert.True(t, result.HasFailures())

	content, err := os.ReadFile(filepath.Join(dir, "b.scm"))
	require.NoError(t, err)
	assert.Equal(t, "(a\nb)\n", string(content))
}

func TestRunner_Run_Write(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, map[string]string{
		"a.scm": "(a\nb)\n",
		"b.clj": "(x\n      y)\n",
	})

	opts := pipeline.DefaultOptions()
	opts.Write = true

	result, err := runner.New(pipeline.New(opts)).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Extensions: config.DefaultExtensions(),
		Jobs:       1,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.FilesChanged)
	assert.Equal(t, 2, result.Stats.FilesWritten)
	assert.False(t, result.HasUnformatted())
	assert.False(t, result.HasFailures())

	content, err := os.ReadFile(filepath.Join(dir, "b.clj"))
	require.NoError(t, err)
	assert.Equal(t, "(x\n  y)\n", string(content))
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := runner.New(pipeline.New(pipeline.DefaultOptions())).Run(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Equal(t, 0, result.Stats.FilesDiscovered)
}

// countingProcessor records concurrency without touching files.
type countingProcessor struct {
	mu       sync.Mutex
	inFlight int
	maxSeen  int
	calls    atomic.Int32
	fail     string
}

func (p *countingProcessor) ProcessFile(_ context.Context, path string) (*pipeline.Result, error) {
	p.calls.Add(1)

	p.mu.Lock()
	p.inFlight++
	p.maxSeen = max(p.maxSeen, p.inFlight)
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight--
		p.mu.Unlock()
	}()

	if filepath.Base(path) == p.fail {
		return nil, errors.New("boom")
	}
	return &pipeline.Result{Path: path}, nil
}

func TestRunner_Run_BoundedWorkers(t *testing.T) {
	t.Parallel()

	files := make(map[string]string)
	for i := range 12 {
		files[fmt.Sprintf("f%02d.scm", i)] = "(a)"
	}
	dir := makeTree(t, files)

	processor := &countingProcessor{fail: "f05.scm"}
	result, err := runner.New(processor).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Extensions: []string{".scm"},
		Jobs:       3,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(12), processor.calls.Load())
	assert.LessOrEqual(t, processor.maxSeen, 3)
	require.Len(t, result.Files, 12)
	for i, outcome := range result.Files {
		assert.Equal(t, filepath.Join(dir, fmt.Sprintf("f%02d.scm", i)), outcome.Path)
	}
	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.Equal(t, 11, result.Stats.FilesProcessed)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New(&countingProcessor{}).Run(ctx, runner.Options{WorkingDir: t.TempDir()})
	require.ErrorIs(t, err, context.Canceled)
}
