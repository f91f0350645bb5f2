package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/parenfmt/pkg/dialect"
	"github.com/yaklabco/parenfmt/pkg/pipeline"
)

// Discover finds source files matching opts. It returns a deterministically
// sorted list of absolute file paths.
//
// Paths named explicitly are returned when they pass the exclude patterns
// and the language filter, whatever their extension.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		opts:    opts,
		workDir: workDir,
		exclude: newMatcher(opts.ExcludeGlobs),
		seen:    make(map[string]struct{}),
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			if err := d.walk(ctx, absPath); err != nil {
				return nil, err
			}
			continue
		}

		if !d.excluded(absPath, false) && d.allowedDialect(absPath) {
			d.add(absPath)
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

type discoverer struct {
	opts    Options
	workDir string
	exclude *matcher
	seen    map[string]struct{}
	files   []string
}

func (d *discoverer) add(path string) {
	if _, ok := d.seen[path]; ok {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if path != root && d.excluded(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // unreadable targets are skipped
			}
			if info.IsDir() {
				if !d.opts.FollowSymlinks || d.excluded(path, true) {
					return nil
				}
				// Walk the target; WalkDir uses Lstat on its root, so
				// walking the link itself would not descend.
				return d.walk(ctx, realPath)
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if d.matches(path) {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// matches checks a walked file against the inclusion criteria.
func (d *discoverer) matches(path string) bool {
	if !d.wanted(path) {
		return false
	}
	return !d.excluded(path, false) && d.allowedDialect(path)
}

// wanted reports whether the file name selects the file for formatting.
func (d *discoverer) wanted(path string) bool {
	if pipeline.IsMarkdown(path) {
		return d.opts.Markdown
	}
	if len(d.opts.Extensions) == 0 {
		_, ok := dialect.FromPath(path)
		return ok
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range d.opts.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func (d *discoverer) allowedDialect(path string) bool {
	if len(d.opts.Languages) == 0 || pipeline.IsMarkdown(path) {
		return true
	}
	lang, ok := dialect.FromPath(path)
	if !ok {
		return true
	}
	return slices.Contains(d.opts.Languages, lang)
}

func (d *discoverer) excluded(path string, isDir bool) bool {
	relPath, err := filepath.Rel(d.workDir, path)
	if err != nil {
		relPath = path
	}
	return d.exclude.match(relPath, isDir)
}

// Filter applies discovery rules to paths found some other way, such as
// file system events.
type Filter struct {
	d *discoverer
}

// NewFilter builds a Filter for opts. Paths and Jobs are ignored.
func NewFilter(opts Options) (*Filter, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	return &Filter{d: &discoverer{
		opts:    opts,
		workDir: workDir,
		exclude: newMatcher(opts.ExcludeGlobs),
	}}, nil
}

// Match reports whether the file at path would have been discovered.
func (f *Filter) Match(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return f.d.matches(path)
}

// SkipDir reports whether discovery would skip the directory at path.
func (f *Filter) SkipDir(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}
	return f.d.excluded(path, true)
}
