package pretty_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codedeco/internal/ui/pretty"
)

func TestSortedRows(t *testing.T) {
	rows := pretty.SortedRows(map[string]int{"string": 2, "keyword": 5, "comment": 2})

	assert.Equal(t, []pretty.CountRow{
		{Name: "keyword", Count: 5},
		{Name: "comment", Count: 2},
		{Name: "string", Count: 2},
	}, rows)
}

func TestFormatCounts(t *testing.T) {
	table := pretty.NewTableFormatter(pretty.NewStyles(false, nil), 0)

	rows := []pretty.CountRow{{Name: "keyword", Count: 3}, {Name: "comment", Count: 1}}
	out := table.FormatCounts("Categories", "CATEGORY", rows, func(string) (lipgloss.Style, bool) {
		return lipgloss.Style{}, false
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Categories", lines[0])
	assert.Contains(t, lines[2], "CATEGORY")
	assert.Contains(t, lines[4], "keyword")
	assert.Contains(t, lines[4], "75.0%")
	assert.Contains(t, lines[5], "25.0%")

	assert.Empty(t, table.FormatCounts("Empty", "X", nil, nil))
}

func TestFormatCounts_Truncates(t *testing.T) {
	table := pretty.NewTableFormatter(pretty.NewStyles(false, nil), 40)

	long := strings.Repeat("x", 60)
	out := table.FormatCounts("T", "NAME", []pretty.CountRow{{Name: long, Count: 1}}, nil)

	assert.NotContains(t, out, long)
	assert.Contains(t, out, "…")
}
