package config

import (
	"fmt"
	"strings"
)

// DefaultTemplateHeader is written at the top of generated config files.
func DefaultTemplateHeader() string {
	return `# parenfmt configuration
# See: https://github.com/yaklabco/parenfmt`
}

// GenerateTemplate returns a commented .parenfmt.yml. With full set, every
// setting is written out with its default; otherwise the defaults are
// shown commented out.
func GenerateTemplate(full bool) []byte {
	defaults := NewConfig()
	prefix := "# "
	if full {
		prefix = ""
	}

	var buf strings.Builder
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")

	section := func(comment string, lines ...string) {
		buf.WriteString("# " + comment + "\n")
		for _, line := range lines {
			buf.WriteString(prefix + line + "\n")
		}
		buf.WriteByte('\n')
	}

	section("Spaces per nesting level",
		fmt.Sprintf("indent_width: %d", defaults.IndentWidth))
	section("Indent with tabs instead of spaces",
		"use_tabs: false")

	extLines := []string{"extensions:"}
	for _, ext := range defaults.Extensions {
		extLines = append(extLines, fmt.Sprintf("  - %q", ext))
	}
	section("File extensions to format", extLines...)

	section("Restrict formatting to these dialects (empty = all)",
		"languages:", `  - "Scheme"`, `  - "Racket"`)
	section("Glob patterns to skip",
		"ignore:", `  - "vendor/**"`, `  - "**/generated/**"`)
	section("Format fenced code blocks inside Markdown files",
		"markdown: false")
	section("Follow symbolic links during discovery",
		"follow_symlinks: false")
	section("Backups taken before rewriting a file: sidecar, xz or none",
		"backups:",
		fmt.Sprintf("  enabled: %t", defaults.Backups.Enabled),
		fmt.Sprintf("  mode: %s", defaults.Backups.Mode))
	section("Skip files already known to be formatted",
		"cache:",
		fmt.Sprintf("  enabled: %t", defaults.Cache.Enabled),
		`  path: ""`)

	return []byte(strings.TrimRight(buf.String(), "\n") + "\n")
}
