package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/parenfmt/pkg/config"
)

// envVarPrefix is the prefix for all parenfmt environment variables.
const envVarPrefix = "PARENFMT_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"INDENT_WIDTH":    {"indent_width", envTypeInt, "Spaces per indentation level"},
	"USE_TABS":        {"use_tabs", envTypeBool, "Indent with tabs: true or false"},
	"EXTENSIONS":      {"extensions", envTypeSlice, "Comma-separated list of file extensions"},
	"LANGUAGES":       {"languages", envTypeSlice, "Comma-separated list of dialects to format"},
	"IGNORE":          {"ignore", envTypeSlice, "Comma-separated list of ignore patterns"},
	"MARKDOWN":        {"markdown", envTypeBool, "Format code blocks in Markdown files: true or false"},
	"FOLLOW_SYMLINKS": {"follow_symlinks", envTypeBool, "Follow symbolic links during discovery: true or false"},
	"FORMAT":          {"format", envTypeString, "Output format: text, json, or diff"},
	"JOBS":            {"jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
	"BACKUPS_ENABLED": {"backups.enabled", envTypeBool, "Enable backups when writing: true or false"},
	"BACKUPS_MODE":    {"backups.mode", envTypeString, "Backup mode: sidecar, xz, or none"},
	"CACHE_ENABLED":   {"cache.enabled", envTypeBool, "Skip files already known to be formatted: true or false"},
	"CACHE_PATH":      {"cache.path", envTypeString, "Location of the cache database"},
	"NO_BACKUPS":      {"no_backups", envTypeBool, "Disable backups: true or false"},
	"NO_CACHE":        {"no_cache", envTypeBool, "Disable the cache: true or false"},
	"WRITE":           {"write", envTypeBool, "Write formatted files in place: true or false"},
	"CHECK":           {"check", envTypeBool, "Fail when files need formatting: true or false"},
	"DRY_RUN":         {"dry_run", envTypeBool, "Dry-run mode: true or false"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with PARENFMT_ (e.g., PARENFMT_INDENT_WIDTH).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "format":
		cfg.Format = config.OutputFormat(strings.ToLower(value))
	case "backups.mode":
		cfg.Backups.Mode = config.BackupMode(strings.ToLower(value))
	case "cache.path":
		cfg.Cache.Path = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "use_tabs":
		cfg.UseTabs = value
	case "markdown":
		cfg.Markdown = value
	case "follow_symlinks":
		cfg.FollowSymlinks = value
	case "backups.enabled":
		cfg.Backups.Enabled = value
	case "cache.enabled":
		cfg.Cache.Enabled = value
	case "no_backups":
		cfg.NoBackups = value
	case "no_cache":
		cfg.NoCache = value
	case "write":
		cfg.Write = value
	case "check":
		cfg.Check = value
	case "dry_run":
		cfg.DryRun = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "indent_width":
		cfg.IndentWidth = value
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "extensions":
		cfg.Extensions = value
	case "languages":
		cfg.Languages = value
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
