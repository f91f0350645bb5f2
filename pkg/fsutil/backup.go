package fsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

// BackupMode selects where and how an original is kept before rewrite.
type BackupMode string

const (
	BackupModeSidecar BackupMode = "sidecar"
	BackupModeXZ      BackupMode = "xz"
	BackupModeNone    BackupMode = "none"
)

// Backup file suffixes.
const (
	BackupSuffix   = ".parenfmt.bak"
	BackupSuffixXZ = ".parenfmt.bak.xz"
)

// BackupConfig controls CreateBackup.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// BackupPath returns where the backup of path lives in mode, or "" for
// BackupModeNone. Unknown modes fall back to sidecar.
func BackupPath(path string, mode BackupMode) string {
	switch mode {
	case BackupModeNone:
		return ""
	case BackupModeXZ:
		return path + BackupSuffixXZ
	default:
		return path + BackupSuffix
	}
}

// CreateBackup saves the current content of path. An existing backup is
// never overwritten, so the oldest original survives repeated runs. It
// reports whether a backup was written.
func CreateBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	if !cfg.Enabled {
		return false, nil
	}
	backupPath := BackupPath(path, cfg.Mode)
	if backupPath == "" {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	if _, err := os.Stat(backupPath); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat backup path: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat original for backup: %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read original for backup: %w", err)
	}

	err = writeAtomic(ctx, backupPath, stat.Mode(), func(w io.Writer) error {
		if cfg.Mode != BackupModeXZ {
			_, err := w.Write(content)
			return err
		}
		return compress(w, content)
	})
	if err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// RestoreBackup writes the backup of path back over it. It reports false
// when there is no backup.
func RestoreBackup(ctx context.Context, path string, mode BackupMode) (bool, error) {
	content, stat, err := readBackup(ctx, path, mode)
	if err != nil || stat == nil {
		return false, err
	}
	if err := WriteAtomic(ctx, path, content, stat.Mode()); err != nil {
		return false, fmt.Errorf("restore from backup: %w", err)
	}
	return true, nil
}

// ReadBackup returns the original content stored in the backup of path.
func ReadBackup(ctx context.Context, path string, mode BackupMode) ([]byte, error) {
	content, stat, err := readBackup(ctx, path, mode)
	if err != nil {
		return nil, err
	}
	if stat == nil {
		return nil, fmt.Errorf("%w: backup of %s", ErrNotFound, path)
	}
	return content, nil
}

func readBackup(ctx context.Context, path string, mode BackupMode) ([]byte, os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read backup: %w", err)
	}
	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return nil, nil, nil
	}

	stat, err := os.Stat(backupPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("stat backup: %w", err)
	}
	raw, err := os.ReadFile(backupPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read backup: %w", err)
	}

	if mode != BackupModeXZ {
		return raw, stat, nil
	}
	content, err := decompress(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("decompress backup %s: %w", backupPath, err)
	}
	return content, stat, nil
}

// RemoveBackup deletes the backup of path, reporting whether one existed.
func RemoveBackup(path string, mode BackupMode) (bool, error) {
	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return false, nil
	}
	if err := os.Remove(backupPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("remove backup: %w", err)
	}
	return true, nil
}

// BackupExists reports whether path has a backup in mode.
func BackupExists(path string, mode BackupMode) bool {
	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return false
	}
	_, err := os.Stat(backupPath)
	return err == nil
}

func compress(w io.Writer, content []byte) error {
	zw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("xz writer: %w", err)
	}
	if _, err := zw.Write(content); err != nil {
		_ = zw.Close()
		return fmt.Errorf("xz write: %w", err)
	}
	return zw.Close()
}

func decompress(raw []byte) ([]byte, error) {
	zr, err := xz.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("xz reader: %w", err)
	}
	return io.ReadAll(zr)
}
