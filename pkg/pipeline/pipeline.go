// Package pipeline formats a single file safely: it reads and hashes the
// original, formats it in memory, and only writes back when the content
// changed and nobody else touched the file in the meantime.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/parenfmt/internal/logging"
	"github.com/yaklabco/parenfmt/pkg/cache"
	"github.com/yaklabco/parenfmt/pkg/config"
	"github.com/yaklabco/parenfmt/pkg/dialect"
	"github.com/yaklabco/parenfmt/pkg/diff"
	"github.com/yaklabco/parenfmt/pkg/format"
	"github.com/yaklabco/parenfmt/pkg/fsutil"
	"github.com/yaklabco/parenfmt/pkg/markdown"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParseFailure indicates the source could not be parsed.
	ErrParseFailure = errors.New("parse failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// Result describes what happened to one file.
type Result struct {
	// Path is the file path that was processed, or "-" for stdin.
	Path string

	// Dialect is the detected dialect. Empty for Markdown files and for
	// source nothing recognized.
	Dialect dialect.Dialect

	// Markdown is true when the file was handled as Markdown.
	Markdown bool

	// Changed is true when formatting produced different bytes.
	Changed bool

	// Written is true if the file was written to disk.
	Written bool

	// Cached is true when the cache vouched for the file and it was not
	// formatted again.
	Cached bool

	// Skipped is true if the file was left alone, see SkipReason.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Diff is set for changed files when Options.Diff is on.
	Diff *diff.Diff

	// Formatted is the formatted content. It is nil for cached and
	// skipped files.
	Formatted []byte

	// Blocks counts formatted Markdown code blocks.
	Blocks int

	// BlockErrors lists Markdown code blocks that failed to parse.
	BlockErrors []*markdown.BlockError
}

// Summary returns a short human-readable outcome.
func (r *Result) Summary() string {
	switch {
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupCreated:
		return "formatted (backup created)"
	case r.Written:
		return "formatted"
	case r.Changed:
		return "needs formatting"
	case r.Cached:
		return "ok (cached)"
	default:
		return "ok"
	}
}

// Options controls pipeline behavior.
type Options struct {
	// Format is handed to the formatter.
	Format format.Options

	// Write stores formatted content back to disk.
	Write bool

	// DryRun computes everything but never writes.
	DryRun bool

	// Diff attaches a unified diff to changed results.
	Diff bool

	// Markdown formats fenced code blocks in Markdown files.
	Markdown bool

	// Languages restricts formatting to these dialects. Empty allows all.
	Languages []dialect.Dialect

	// Backup configures backup behavior.
	Backup fsutil.BackupConfig

	// StrictRaceDetection uses hash comparison for modification detection.
	// When false, only mod time and size are checked.
	StrictRaceDetection bool

	// Cache records files already known to be formatted. Nil disables it.
	Cache *cache.Cache
}

// DefaultOptions returns check-only defaults.
func DefaultOptions() Options {
	return Options{
		Format:              format.DefaultOptions(),
		StrictRaceDetection: true,
	}
}

// OptionsFromConfig translates a resolved configuration. The cache is not
// opened here; callers attach it.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return DefaultOptions()
	}

	var languages []dialect.Dialect
	for _, name := range cfg.Languages {
		if d, ok := dialect.Lookup(name); ok {
			languages = append(languages, d)
		}
	}

	mode := fsutil.BackupMode(cfg.Backups.Mode)
	return Options{
		Format:    format.Options{IndentWidth: cfg.IndentWidth, UseTabs: cfg.UseTabs},
		Write:     cfg.Write,
		DryRun:    cfg.DryRun,
		Diff:      cfg.Check || cfg.DryRun || cfg.Format == config.FormatDiff,
		Markdown:  cfg.Markdown,
		Languages: languages,
		Backup: fsutil.BackupConfig{
			Enabled: cfg.BackupsEnabled(),
			Mode:    mode,
		},
		StrictRaceDetection: true,
	}
}

// Fingerprint identifies the settings that affect output, so cache entries
// written under other settings are not trusted.
func (o Options) Fingerprint() string {
	languages := make([]string, 0, len(o.Languages))
	for _, d := range o.Languages {
		languages = append(languages, string(d))
	}
	slices.Sort(languages)

	return cache.Fingerprint(
		"indent="+strconv.Itoa(o.Format.IndentWidth),
		"tabs="+strconv.FormatBool(o.Format.UseTabs),
		"markdown="+strconv.FormatBool(o.Markdown),
		"languages="+strings.Join(languages, ","),
	)
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	Options Options
}

// New creates a pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{Options: opts}
}

// IsMarkdown reports whether path names a Markdown document.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}

// ProcessFile runs the full pipeline for a single file.
//
// The pipeline performs the following steps:
//  1. Read and hash the original file.
//  2. Consult the cache.
//  3. Format in memory.
//  4. Attach a diff (if requested).
//  5. Check for concurrent modifications.
//  6. Create backup (if enabled).
//  7. Write the formatted content atomically and record it in the cache.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Result, error) {
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)

	original, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	settings := p.Options.Fingerprint()
	if p.Options.Cache != nil {
		hit, err := p.Options.Cache.Lookup(ctx, path, info.Hash, settings)
		if err != nil {
			logger.Warn("cache lookup failed", logging.FieldError, err)
		} else if hit {
			logger.Debug("unchanged since last run", logging.FieldCached, true)
			return &Result{Path: path, Cached: true}, nil
		}
	}

	result, err := p.ProcessContent(ctx, path, original)
	if err != nil {
		return nil, err
	}
	if result.Skipped {
		return result, nil
	}

	if !result.Changed {
		p.remember(ctx, path, info.Hash, settings)
		return result, nil
	}

	if !p.Options.Write || p.Options.DryRun {
		return result, nil
	}

	modified, err := p.checkModified(ctx, info)
	if err != nil {
		return nil, err
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	if p.Options.Backup.Enabled {
		created, err := fsutil.CreateBackup(ctx, path, p.Options.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, path, result.Formatted, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true
	logger.Debug("wrote file", logging.FieldBackup, result.BackupCreated)

	p.remember(ctx, path, fsutil.Hash(result.Formatted), settings)
	return result, nil
}

// ProcessContent formats in-memory content without file I/O. path picks
// the dialect and whether the content is Markdown; it may be empty.
func (p *Pipeline) ProcessContent(ctx context.Context, path string, original []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	result := &Result{Path: path}

	if p.Options.Markdown && IsMarkdown(path) {
		result.Markdown = true
		md, err := markdown.FormatCodeBlocks(original, p.formatBlock)
		if err != nil {
			return nil, fmt.Errorf("format markdown %s: %w", path, err)
		}
		result.Formatted = md.Content
		result.Blocks = md.Blocks
		result.BlockErrors = md.Failed
	} else {
		d, _ := dialect.Detect(path, original)
		result.Dialect = d
		if !p.allowed(d) {
			result.Skipped = true
			result.SkipReason = "dialect " + string(d) + " not enabled"
			return result, nil
		}

		formatted, err := format.Source(string(original), p.Options.Format)
		if err != nil {
			return nil, newParseError(path, string(original), err)
		}
		result.Formatted = []byte(formatted)
	}

	result.Changed = !bytes.Equal(original, result.Formatted)
	if result.Changed && p.Options.Diff {
		result.Diff = diff.Compute(path, original, result.Formatted)
	}

	return result, nil
}

func (p *Pipeline) formatBlock(d dialect.Dialect, code string) (string, error) {
	if !p.allowed(d) {
		return code, nil
	}
	return format.Source(code, p.Options.Format)
}

// allowed reports whether d passes the language filter. Unrecognized
// source is always formatted.
func (p *Pipeline) allowed(d dialect.Dialect) bool {
	if len(p.Options.Languages) == 0 || d == dialect.Unknown {
		return true
	}
	return slices.Contains(p.Options.Languages, d)
}

// remember records a formatted file. Cache failures only cost a re-format
// next time, so they are logged rather than returned.
func (p *Pipeline) remember(ctx context.Context, path string, hash fsutil.Digest, settings string) {
	if p.Options.Cache == nil {
		return
	}
	if err := p.Options.Cache.Store(ctx, path, hash, settings); err != nil {
		logging.FromContext(ctx).Warn("cache store failed",
			logging.FieldPath, path,
			logging.FieldError, err,
		)
	}
}

// checkModified checks if a file has been modified since it was read.
func (p *Pipeline) checkModified(ctx context.Context, info *fsutil.FileInfo) (bool, error) {
	var modified bool
	var err error

	if p.Options.StrictRaceDetection {
		modified, err = fsutil.CheckModified(ctx, info)
	} else {
		modified, err = fsutil.CheckModifiedQuick(ctx, info)
	}

	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}
	return modified, nil
}

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrWriteFailure)
}
