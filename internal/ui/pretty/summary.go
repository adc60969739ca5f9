package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/codedeco/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "42 ranges in 7 blocks across 3 files, 1 block failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.RangesTotal == 0 && stats.BlocksFailed == 0 && stats.FilesErrored == 0 {
		return s.Success.Render("No ranges") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))) + "\n"
	}

	parts := []string{fmt.Sprintf("%d %s in %d %s across %d %s",
		stats.RangesTotal, plural(stats.RangesTotal, "range", "ranges"),
		stats.BlocksDecorated, plural(stats.BlocksDecorated, "block", "blocks"),
		stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles),
	)}

	if stats.BlocksFailed > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s failed",
			stats.BlocksFailed, plural(stats.BlocksFailed, "block", "blocks"))))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s unreadable",
			stats.FilesErrored, plural(stats.FilesErrored, wordFile, wordFiles))))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files processed:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files unreadable:  " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("  Blocks:            " +
		s.SummaryValue.Render(strconv.Itoa(stats.BlocksTotal)) + "\n")
	builder.WriteString("    Decorated:       " +
		s.SummaryValue.Render(strconv.Itoa(stats.BlocksDecorated)) + "\n")
	if stats.BlocksFailed > 0 {
		builder.WriteString("    Failed:          " +
			s.Failure.Render(strconv.Itoa(stats.BlocksFailed)) + "\n")
	}

	builder.WriteString("  Ranges:            " +
		s.SummaryValue.Render(strconv.Itoa(stats.RangesTotal)) + "\n")

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0 || stats.BlocksFailed > 0:
		builder.WriteString(s.Failure.Render("Decoration finished with failures"))
	default:
		builder.WriteString(s.Success.Render("Decoration complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}
