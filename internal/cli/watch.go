package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/yaklabco/parenfmt/internal/logging"
	"github.com/yaklabco/parenfmt/pkg/runner"
	"github.com/yaklabco/parenfmt/pkg/watch"
)

// watchTargets splits the run's paths into directories named on the
// command line and individually named files.
type watchTargets struct {
	dirs  []string
	files map[string]bool
}

func resolveWatchTargets(opts runner.Options) (*watchTargets, error) {
	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	targets := &watchTargets{files: make(map[string]bool)}
	for _, path := range paths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(opts.WorkingDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			if !slices.Contains(targets.dirs, path) {
				targets.dirs = append(targets.dirs, path)
			}
			continue
		}
		targets.files[path] = true
	}

	return targets, nil
}

// roots returns the directories to watch: the named directories plus the
// parent of every named file.
func (t *watchTargets) roots() []string {
	roots := slices.Clone(t.dirs)
	for file := range t.files {
		if dir := filepath.Dir(file); !slices.Contains(roots, dir) {
			roots = append(roots, dir)
		}
	}
	slices.Sort(roots)
	return roots
}

// within reports whether path lies under one of the named directories.
func (t *watchTargets) within(path string) bool {
	for _, dir := range t.dirs {
		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// watch keeps formatting files under the run's paths until ctx is done.
func (s *session) watch(ctx context.Context, opts runner.Options) error {
	targets, err := resolveWatchTargets(opts)
	if err != nil {
		return err
	}

	filter, err := runner.NewFilter(opts)
	if err != nil {
		return fmt.Errorf("build watch filter: %w", err)
	}

	var reportMu sync.Mutex
	handler := func(ctx context.Context, path string) {
		result, err := s.runner.ProcessFiles(ctx, []string{path}, 1)
		if err != nil {
			s.logger.Warn("watch run failed", logging.FieldPath, path, logging.FieldError, err)
			return
		}

		reportMu.Lock()
		defer reportMu.Unlock()
		if _, err := s.reporter.Report(ctx, result); err != nil {
			s.logger.Warn("report failed", logging.FieldError, err)
		}
	}

	roots := targets.roots()
	watcher, err := watch.New(ctx, watch.Options{
		Roots: roots,
		Match: func(path string) bool {
			return targets.files[path] || (targets.within(path) && filter.Match(path))
		},
		SkipDir: filter.SkipDir,
	}, handler)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	s.logger.Info("watching for changes", logging.FieldPaths, roots)
	return watcher.Run(ctx)
}
