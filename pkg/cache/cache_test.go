package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/parenfmt/pkg/cache"
	"github.com/yaklabco/parenfmt/pkg/fsutil"
)

func openCache(t *testing.T) *cache.Cache {
	t.Helper()

	c, err := cache.Open(context.Background(), filepath.Join(t.TempDir(), "sub", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_LookupStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := openCache(t)

	hash := fsutil.Hash([]byte("(foo)\n"))
	settings := cache.Fingerprint("indent=2")

	hit, err := c.Lookup(ctx, "a.scm", hash, settings)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Store(ctx, "a.scm", hash, settings))

	hit, err = c.Lookup(ctx, "a.scm", hash, settings)
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = c.Lookup(ctx, "a.scm", fsutil.Hash([]byte("(bar)\n")), settings)
	require.NoError(t, err)
	assert.False(t, hit, "different content")

	hit, err = c.Lookup(ctx, "a.scm", hash, cache.Fingerprint("indent=4"))
	require.NoError(t, err)
	assert.False(t, hit, "different settings")

	require.NoError(t, c.Store(ctx, "a.scm", hash, settings))
	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "store is an upsert")

	require.NoError(t, c.Forget(ctx, "a.scm"))
	n, err = c.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCache_Prune(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := openCache(t)
	dir := t.TempDir()

	kept := filepath.Join(dir, "kept.scm")
	require.NoError(t, os.WriteFile(kept, []byte("x"), 0o644))
	gone := filepath.Join(dir, "gone.scm")

	hash := fsutil.Hash([]byte("x"))
	require.NoError(t, c.Store(ctx, kept, hash, "s"))
	require.NoError(t, c.Store(ctx, gone, hash, "s"))

	removed, err := c.Prune(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	hit, err := c.Lookup(ctx, kept, hash, "s")
	require.NoError(t, err)
	assert.True(t, hit)

	removed, err = c.Prune(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := openCache(t)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path := filepath.Join("dir", string(rune('a'+i))+".scm")
			assert.NoError(t, c.Store(ctx, path, fsutil.Hash([]byte(path)), "s"))
		}()
	}
	wg.Wait()

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cache.Fingerprint("a", "b"), cache.Fingerprint("a", "b"))
	assert.NotEqual(t, cache.Fingerprint("ab"), cache.Fingerprint("a", "b"))
	assert.Len(t, cache.Fingerprint("x"), 16)
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	path, err := cache.DefaultPath()
	if err != nil {
		t.Skipf("no user cache dir: %v", err)
	}
	assert.Equal(t, "cache.db", filepath.Base(path))
}
