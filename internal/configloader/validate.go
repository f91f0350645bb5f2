package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/parenfmt/pkg/config"
	"github.com/yaklabco/parenfmt/pkg/dialect"
	"github.com/yaklabco/parenfmt/pkg/runner"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "backups.mode").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown fields).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// maxIndentWidth bounds indent_width; anything wider is almost certainly a typo.
const maxIndentWidth = 16

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	if cfg.IndentWidth < 1 || cfg.IndentWidth > maxIndentWidth {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "indent_width",
			Value:   cfg.IndentWidth,
			Message: fmt.Sprintf("indent_width must be between 1 and %d", maxIndentWidth),
		})
	}

	if cfg.Format != "" && !IsValidFormat(cfg.Format) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: %s", cfg.Format, strings.Join(config.OutputFormats(), ", ")),
		})
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	if cfg.Backups.Mode != "" && !cfg.Backups.Mode.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "backups.mode",
			Value:   cfg.Backups.Mode,
			Message: fmt.Sprintf("invalid backup mode %q; must be one of: sidecar, xz, none", cfg.Backups.Mode),
		})
	}

	if cfg.Write && cfg.Check {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "write",
			Value:   true,
			Message: "write and check cannot be combined",
		})
	}

	validateLanguages(cfg, result)
	validateExtensions(cfg, result)
	validateIgnorePatterns(cfg, result)

	return result
}

func validateLanguages(cfg *config.Config, result *ValidationResult) {
	for i, lang := range cfg.Languages {
		if !dialect.IsSupported(lang) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("languages[%d]", i),
				Value:   lang,
				Message: fmt.Sprintf("unsupported language %q", lang),
			})
		}
	}
}

// validateExtensions warns about extensions that will never match a file
// name because they lack the leading dot, and about ones no dialect claims.
func validateExtensions(cfg *config.Config, result *ValidationResult) {
	for i, ext := range cfg.Extensions {
		field := fmt.Sprintf("extensions[%d]", i)
		if !strings.HasPrefix(ext, ".") {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field,
				Value:   ext,
				Message: fmt.Sprintf("extension %q has no leading dot and matches nothing", ext),
			})
			continue
		}
		if _, ok := dialect.FromPath("file" + ext); !ok {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field,
				Value:   ext,
				Message: fmt.Sprintf("extension %q is not associated with a known dialect; files will be detected by content", ext),
			})
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if !runner.ValidGlob(pattern) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern %q", pattern),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	switch f {
	case config.FormatText, config.FormatJSON, config.FormatDiff:
		return true
	default:
		return false
	}
}
