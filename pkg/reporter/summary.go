package reporter

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/codedeco/internal/ui/pretty"
	"github.com/yaklabco/codedeco/pkg/runner"
)

// noLanguage labels blocks without a language in the languages table.
const noLanguage = "(none)"

// SummaryReporter prints aggregate tables: ranges per category and blocks
// per language, followed by the run totals.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	table  *pretty.TableFormatter
	out    io.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled, opts.Styles)
	return &SummaryReporter{
		opts:   opts,
		styles: styles,
		table:  pretty.NewTableFormatter(styles, opts.TermWidth),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil || result.Stats.BlocksTotal == 0 && result.Stats.FilesErrored == 0 {
		_, err := fmt.Fprintln(r.out, r.styles.Success.Render("No blocks to decorate"))
		return 0, err
	}

	stats := result.Stats

	categories := r.table.FormatCounts("Ranges by category", "CATEGORY",
		pretty.SortedRows(stats.RangesByCategory),
		func(name string) (lipgloss.Style, bool) {
			return r.styles.Category([]string{name})
		})

	byLanguage := make(map[string]int, len(stats.BlocksByLanguage))
	for lang, n := range stats.BlocksByLanguage {
		if lang == "" {
			lang = noLanguage
		}
		byLanguage[lang] += n
	}
	languages := r.table.FormatCounts("Blocks by language", "LANGUAGE", pretty.SortedRows(byLanguage), nil)

	for _, section := range []string{categories, languages} {
		if section == "" {
			continue
		}
		if _, err := fmt.Fprintln(r.out, section); err != nil {
			return 0, fmt.Errorf("write summary: %w", err)
		}
	}

	if _, err := fmt.Fprint(r.out, r.styles.FormatSummary(stats)); err != nil {
		return 0, fmt.Errorf("write summary: %w", err)
	}

	return stats.RangesTotal, nil
}
