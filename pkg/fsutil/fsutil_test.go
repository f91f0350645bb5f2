package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/parenfmt/pkg/fsutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHash(t *testing.T) {
	t.Parallel()

	a := fsutil.Hash([]byte("(foo)\n"))
	b := fsutil.Hash([]byte("(foo)\n"))
	c := fsutil.Hash([]byte("(bar)\n"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a.String(), 64)
	// BLAKE3 of the empty input.
	assert.Equal(t, "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", fsutil.Hash(nil).String())
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "a.scm", "(foo)\n")

	content, info, err := fsutil.ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "(foo)\n", string(content))
	assert.Equal(t, path, info.Path)
	assert.Equal(t, int64(6), info.Size)
	assert.Equal(t, fsutil.Hash(content), info.Hash)
}

func TestReadFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	_, _, err := fsutil.ReadFile(ctx, filepath.Join(dir, "missing.scm"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.ReadFile(ctx, dir)
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = fsutil.ReadFile(cancelled, dir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.scm", "(foo)\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		changed, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("same size and mtime but new content", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.scm", "(foo)\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("(bar)\n"), 0o644))
		require.NoError(t, os.Chtimes(path, info.ModTime, info.ModTime))

		quick, err := fsutil.CheckModifiedQuick(ctx, info)
		require.NoError(t, err)
		assert.False(t, quick)

		changed, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("mtime moved", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.scm", "(foo)\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		later := info.ModTime.Add(time.Hour)
		require.NoError(t, os.Chtimes(path, later, later))

		changed, err := fsutil.CheckModifiedQuick(ctx, info)
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.scm", "(foo)\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		changed, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.CheckModified(ctx, nil)
		require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}
