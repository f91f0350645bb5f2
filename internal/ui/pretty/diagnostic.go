package pretty

import (
	"fmt"
	"strings"
)

// FormatProblem formats "path:line:col: severity: message". line and
// column are 1-based; zero omits them.
func (s *Styles) FormatProblem(path string, line, column int, severity, message string) string {
	location := s.FilePath.Render(path)
	if line > 0 {
		location += s.Location.Render(fmt.Sprintf(":%d:%d", line, column))
	}

	sev := severity
	switch severity {
	case "error":
		sev = s.Error.Render(severity)
	case "warning":
		sev = s.Warning.Render(severity)
	}

	return fmt.Sprintf("%s: %s: %s\n", location, sev, s.Message.Render(message))
}

// FormatSourceContext formats the source line with a caret under the
// 1-based column.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "    "

	builder.WriteString(indent + s.SourceLine.Render(expandTabs(line)) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", caretOffset(line, column-1))
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatStatus formats a one-line file outcome such as "a.scm: formatted".
func (s *Styles) FormatStatus(path, status string) string {
	style := s.Dim
	switch {
	case strings.HasPrefix(status, "formatted"):
		style = s.Written
	case status == "needs formatting":
		style = s.Changed
	case strings.HasPrefix(status, "skipped"):
		style = s.Warning
	}
	return s.FilePath.Render(path) + ": " + style.Render(status) + "\n"
}

const tabWidth = 4

func expandTabs(line string) string {
	return strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth))
}

// caretOffset converts a byte column into a display column, counting
// tabs the way expandTabs prints them.
func caretOffset(line string, byteColumn int) int {
	byteColumn = min(byteColumn, len(line))
	prefix := line[:byteColumn]
	return len([]rune(prefix)) + strings.Count(prefix, "\t")*(tabWidth-1)
}
