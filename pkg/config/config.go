// Package config defines the parenfmt configuration model. It is plain data;
// loading and merging live in internal/configloader.
package config

import "github.com/yaklabco/parenfmt/pkg/doc"

// BackupMode selects how originals are preserved before a write.
type BackupMode string

const (
	// BackupSidecar copies the original next to the file as <name>.parenfmt.bak.
	BackupSidecar BackupMode = "sidecar"
	// BackupXZ stores an xz-compressed copy as <name>.parenfmt.bak.xz.
	BackupXZ BackupMode = "xz"
	// BackupNone keeps no copy.
	BackupNone BackupMode = "none"
)

// IsValid reports whether m is a known backup mode.
func (m BackupMode) IsValid() bool {
	switch m {
	case BackupSidecar, BackupXZ, BackupNone:
		return true
	default:
		return false
	}
}

// BackupsConfig controls backups taken before files are rewritten.
type BackupsConfig struct {
	Enabled bool       `yaml:"enabled"`
	Mode    BackupMode `yaml:"mode"`
}

// CacheConfig controls the on-disk record of already formatted files.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file. Empty means the user cache
	// directory.
	Path string `yaml:"path,omitempty"`
}

// OutputFormat selects how results are reported.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// DefaultExtensions are the file extensions formatted when none are
// configured.
func DefaultExtensions() []string {
	return []string{
		".scm", ".ss", ".sld", ".sls",
		".rkt",
		".lisp", ".lsp", ".cl", ".asd",
		".el",
		".clj", ".cljs", ".cljc", ".edn",
		".fnl",
		".janet",
	}
}

// Config is the root configuration.
type Config struct {
	// IndentWidth is the number of spaces per nesting level.
	IndentWidth int `yaml:"indent_width"`

	// UseTabs indents with tabs instead of spaces.
	UseTabs bool `yaml:"use_tabs"`

	// Extensions lists file extensions to format, with the leading dot.
	Extensions []string `yaml:"extensions"`

	// Languages restricts formatting to these dialects. Empty means every
	// supported dialect.
	Languages []string `yaml:"languages,omitempty"`

	// Ignore holds glob patterns for paths to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// Markdown formats fenced code blocks inside Markdown files.
	Markdown bool `yaml:"markdown"`

	// FollowSymlinks lets discovery descend into symlinked paths.
	FollowSymlinks bool `yaml:"follow_symlinks"`

	Backups BackupsConfig `yaml:"backups"`
	Cache   CacheConfig   `yaml:"cache"`

	// CLI-only settings, never read from or written to files.

	Write     bool         `yaml:"-"`
	Check     bool         `yaml:"-"`
	DryRun    bool         `yaml:"-"`
	Format    OutputFormat `yaml:"-"`
	Jobs      int          `yaml:"-"`
	NoBackups bool         `yaml:"-"`
	NoCache   bool         `yaml:"-"`
}

// NewConfig returns the built-in defaults.
func NewConfig() *Config {
	return &Config{
		IndentWidth: doc.DefaultIndentWidth,
		Extensions:  DefaultExtensions(),
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    BackupSidecar,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Format: FormatText,
		Jobs:   0, // GOMAXPROCS
	}
}

// BackupsEnabled reports whether writes should take a backup first.
func (c *Config) BackupsEnabled() bool {
	return c.Backups.Enabled && !c.NoBackups && c.Backups.Mode != BackupNone
}

// CacheEnabled reports whether the format cache should be consulted.
func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled && !c.NoCache
}
