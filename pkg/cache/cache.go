// Package cache remembers which files are already formatted so unchanged
// files can be skipped on the next run. Entries live in a small SQLite
// database keyed by path.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/yaklabco/parenfmt/pkg/fsutil"
)

const driverName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS formatted (
	path       TEXT PRIMARY KEY,
	hash       TEXT NOT NULL,
	settings   TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

// Cache is a handle on the cache database. It is safe for concurrent use;
// all access goes through a single connection.
type Cache struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the cache location under the user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate user cache dir: %w", err)
	}
	return filepath.Join(dir, "parenfmt", "cache.db"), nil
}

// Open opens or creates the cache database at path. The special path
// ":memory:" gives a private in-memory cache.
func Open(ctx context.Context, path string) (*Cache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA busy_timeout = 5000", schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init cache %s: %w", path, err)
		}
	}

	return &Cache{db: db, path: path}, nil
}

// Path returns the database location.
func (c *Cache) Path() string {
	return c.path
}

// Lookup reports whether path was last seen formatted with exactly this
// content hash under the same settings fingerprint.
func (c *Cache) Lookup(ctx context.Context, path string, hash fsutil.Digest, settings string) (bool, error) {
	var stored, storedSettings string
	err := c.db.QueryRowContext(ctx,
		`SELECT hash, settings FROM formatted WHERE path = ?`, key(path),
	).Scan(&stored, &storedSettings)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("cache lookup %s: %w", path, err)
	}
	return stored == hash.String() && storedSettings == settings, nil
}

// Store records that path, with content hash, is formatted.
func (c *Cache) Store(ctx context.Context, path string, hash fsutil.Digest, settings string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO formatted (path, hash, settings, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			hash = excluded.hash,
			settings = excluded.settings,
			updated_at = excluded.updated_at`,
		key(path), hash.String(), settings, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("cache store %s: %w", path, err)
	}
	return nil
}

// Forget drops the entry for path, if any.
func (c *Cache) Forget(ctx context.Context, path string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM formatted WHERE path = ?`, key(path)); err != nil {
		return fmt.Errorf("cache forget %s: %w", path, err)
	}
	return nil
}

// Prune removes entries for files that no longer exist and entries not
// refreshed since before. A zero before keeps entries regardless of age.
// It returns the number of rows removed.
func (c *Cache) Prune(ctx context.Context, before time.Time) (int, error) {
	removed := 0

	if !before.IsZero() {
		res, err := c.db.ExecContext(ctx, `DELETE FROM formatted WHERE updated_at < ?`, before.Unix())
		if err != nil {
			return 0, fmt.Errorf("cache prune: %w", err)
		}
		n, _ := res.RowsAffected()
		removed += int(n)
	}

	paths, err := c.paths(ctx)
	if err != nil {
		return removed, err
	}
	for _, path := range paths {
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := c.Forget(ctx, path); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

// Len returns the number of entries.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM formatted`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache count: %w", err)
	}
	return n, nil
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) paths(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT path FROM formatted`)
	if err != nil {
		return nil, fmt.Errorf("cache scan: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("cache scan: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// key normalizes path so the same file always maps to one row.
func key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Fingerprint condenses the settings that influence formatted output into
// a short token stored next to each entry. Changing any part invalidates
// earlier entries.
func Fingerprint(parts ...string) string {
	return fsutil.Hash([]byte(strings.Join(parts, "\x00"))).String()[:16]
}
