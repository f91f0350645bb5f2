package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/parenfmt/pkg/runner"
)

// Plural returns "n word" with an "s" added unless n is 1.
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 files need formatting, 1 failed (12 files checked, 9 cached)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No files to format.") + "\n"
	}

	var parts []string

	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render("formatted "+Plural(stats.FilesWritten, "file")))
	}

	if pending := stats.FilesChanged - stats.FilesWritten; pending > 0 {
		verb := "need"
		if pending == 1 {
			verb = "needs"
		}
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%s %s formatting", Plural(pending, "file"), verb)))
	}

	if len(parts) == 0 && stats.FilesErrored == 0 {
		parts = append(parts, s.Success.Render("All files formatted"))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	if stats.BlocksFailed > 0 {
		parts = append(parts, s.Warning.Render(Plural(stats.BlocksFailed, "code block")+" not parsed"))
	}

	detail := Plural(stats.FilesProcessed+stats.FilesErrored, "file") + " checked"
	if stats.FilesCached > 0 {
		detail += fmt.Sprintf(", %d cached", stats.FilesCached)
	}

	return strings.Join(parts, ", ") + s.Dim.Render(" ("+detail+")") + "\n"
}
