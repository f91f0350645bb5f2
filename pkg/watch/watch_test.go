package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/parenfmt/pkg/watch"
)

const interval = 30 * time.Millisecond

func startWatcher(t *testing.T, opts watch.Options) <-chan string {
	t.Helper()

	changed := make(chan string, 16)
	ctx, cancel := context.WithCancel(context.Background())

	w, err := watch.New(ctx, opts, func(_ context.Context, path string) {
		changed <- path
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	return changed
}

func receive(t *testing.T, changed <-chan string) string {
	t.Helper()

	select {
	case path := <-changed:
		return path
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a change")
		return ""
	}
}

func assertQuiet(t *testing.T, changed <-chan string) {
	t.Helper()

	select {
	case path := <-changed:
		t.Fatalf("unexpected change for %s", path)
	case <-time.After(5 * interval):
	}
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	changed := startWatcher(t, watch.Options{
		Roots:    []string{dir},
		Interval: interval,
		Match:    func(path string) bool { return strings.HasSuffix(path, ".scm") },
	})

	path := filepath.Join(dir, "a.scm")
	for _, content := range []string{"(a", "(a b", "(a b)"} {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	assert.Equal(t, path, receive(t, changed))
	assertQuiet(t, changed)
}

func TestWatcher_NewDirectories(t *testing.T) {
	dir := t.TempDir()
	changed := startWatcher(t, watch.Options{
		Roots:    []string{dir},
		Interval: interval,
	})

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the watcher time to pick up the new directory.
	time.Sleep(10 * interval)

	path := filepath.Join(sub, "b.scm")
	require.NoError(t, os.WriteFile(path, []byte("(b)"), 0o644))
	assert.Equal(t, path, receive(t, changed))
}

func TestWatcher_SkipsEditorFilesAndSkippedDirs(t *testing.T) {
	dir := t.TempDir()
	skipped := filepath.Join(dir, "vendor")
	require.NoError(t, os.Mkdir(skipped, 0o755))

	changed := startWatcher(t, watch.Options{
		Roots:    []string{dir},
		Interval: interval,
		SkipDir:  func(path string) bool { return filepath.Base(path) == "vendor" },
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".a.scm.swp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.scm~"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(skipped, "v.scm"), []byte("x"), 0o644))

	assertQuiet(t, changed)
}

func TestNew_NilHandler(t *testing.T) {
	_, err := watch.New(context.Background(), watch.Options{}, nil)
	require.Error(t, err)
}
