package config

import (
	"fmt"
	"strings"
)

// ParseOutputFormat converts a user-supplied format name.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch format := OutputFormat(strings.ToLower(strings.TrimSpace(name))); format {
	case FormatText, FormatJSON, FormatDiff:
		return format, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or diff)", name)
	}
}

// OutputFormats lists the accepted format names.
func OutputFormats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatDiff)}
}
