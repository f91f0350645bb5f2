// Package runner discovers source files and formats them concurrently.
package runner

import (
	"github.com/yaklabco/parenfmt/pkg/config"
	"github.com/yaklabco/parenfmt/pkg/dialect"
)

// Options controls discovery and concurrency.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot) to
	// format. When empty, any file whose name go-enry maps to a supported
	// dialect is formatted.
	Extensions []string

	// Languages restricts discovery to files of these dialects. Files whose
	// name says nothing about their dialect are kept.
	Languages []dialect.Dialect

	// Markdown includes .md and .markdown files.
	Markdown bool

	// ExcludeGlobs are glob patterns used to skip files or directories.
	// A pattern without a slash matches any path component.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.GOMAXPROCS.
	Jobs int
}

// OptionsFromConfig builds discovery options for paths from a resolved
// configuration.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths}
	if cfg == nil {
		return opts
	}

	opts.Extensions = cfg.Extensions
	opts.Markdown = cfg.Markdown
	opts.ExcludeGlobs = cfg.Ignore
	opts.FollowSymlinks = cfg.FollowSymlinks
	opts.Jobs = cfg.Jobs
	for _, name := range cfg.Languages {
		if d, ok := dialect.Lookup(name); ok {
			opts.Languages = append(opts.Languages, d)
		}
	}
	return opts
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
