package pretty

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minNameWidth     = 12
	countColumnWidth = 8
	shareColumnWidth = 7
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// CountRow is one row of a count table.
type CountRow struct {
	Name  string
	Count int
}

// TableFormatter formats aggregate counts as styled tables.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// SortedRows converts counts to rows ordered by count descending, then name.
func SortedRows(counts map[string]int) []CountRow {
	rows := make([]CountRow, 0, len(counts))
	for name, count := range counts {
		rows = append(rows, CountRow{Name: name, Count: count})
	}
	slices.SortFunc(rows, func(a, b CountRow) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return rows
}

// FormatCounts renders rows under title with NAME, COUNT and SHARE columns.
// The name column is styled with style(name) when style is non-nil.
func (t *TableFormatter) FormatCounts(title, nameHeader string, rows []CountRow, style func(name string) (lipgloss.Style, bool)) string {
	if len(rows) == 0 {
		return ""
	}

	total := 0
	nameWidth := max(minNameWidth, len(nameHeader))
	for _, row := range rows {
		total += row.Count
		nameWidth = max(nameWidth, len(row.Name))
	}

	maxName := t.termWidth - countColumnWidth - shareColumnWidth - 2*tablePadding
	nameWidth = min(nameWidth, max(maxName, minNameWidth))
	width := nameWidth + countColumnWidth + shareColumnWidth + 2*tablePadding
	gap := strings.Repeat(" ", tablePadding)

	var builder strings.Builder

	builder.WriteString(t.styles.Bold.Render(title))
	builder.WriteString("\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, width)))
	builder.WriteString("\n")
	builder.WriteString(t.styles.TableHeader.Render(padRight(nameHeader, nameWidth)) + gap +
		t.styles.TableHeader.Render(padLeft("COUNT", countColumnWidth)) + gap +
		t.styles.TableHeader.Render(padLeft("SHARE", shareColumnWidth)))
	builder.WriteString("\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(lightSeparator, width)))
	builder.WriteString("\n")

	for _, row := range rows {
		// Pad before styling; ANSI codes would break the width.
		name := padRight(truncateString(row.Name, nameWidth), nameWidth)
		if style != nil {
			if s, ok := style(row.Name); ok {
				name = s.Render(name)
			}
		}

		share := 0.0
		if total > 0 {
			share = float64(row.Count) * 100 / float64(total)
		}

		builder.WriteString(name + gap +
			padLeft(strconv.Itoa(row.Count), countColumnWidth) + gap +
			padLeft(fmt.Sprintf("%.1f%%", share), shareColumnWidth))
		builder.WriteString("\n")
	}

	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, width)))
	builder.WriteString("\n")

	return builder.String()
}

// padRight pads a string to the given width with spaces on the right.
func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// padLeft pads a string to the given width with spaces on the left.
func padLeft(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

// truncateString shortens str to maxLen runes, marking the cut with an ellipsis.
func truncateString(str string, maxLen int) string {
	runes := []rune(str)
	if len(runes) <= maxLen {
		return str
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
