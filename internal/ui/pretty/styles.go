// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/codedeco/pkg/config"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Status styles
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Range components
	FilePath lipgloss.Style
	Location lipgloss.Style
	Label    lipgloss.Style
	Fence    lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style

	// categories maps a range label to the style its text is painted with.
	categories map[string]lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
// palette maps categories to styles; nil means config.DefaultStyles().
func NewStyles(colorEnabled bool, palette map[string]config.StyleConfig) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}

	styles := newColorStyles()
	if palette == nil {
		palette = config.DefaultStyles()
	}
	for category, sc := range palette {
		styles.categories[category] = StyleFromConfig(sc)
	}
	return styles
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),

		FilePath: lipgloss.NewStyle().Bold(true),
		Location: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Fence:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		TableHeader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),

		categories: make(map[string]lipgloss.Style),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:          plain,
		Warning:        plain,
		FilePath:       plain,
		Location:       plain,
		Label:          plain,
		Fence:          plain,
		SummaryTitle:   plain,
		SummaryValue:   plain,
		Success:        plain,
		Failure:        plain,
		TableHeader:    plain,
		TableSeparator: plain,
		Dim:            plain,
		Bold:           plain,
		categories:     make(map[string]lipgloss.Style),
	}
}

// StyleFromConfig converts a configured style to a lipgloss style.
func StyleFromConfig(sc config.StyleConfig) lipgloss.Style {
	style := lipgloss.NewStyle().
		Bold(sc.Bold).
		Italic(sc.Italic).
		Faint(sc.Faint).
		Underline(sc.Underline)
	if sc.Foreground != "" {
		style = style.Foreground(lipgloss.Color(sc.Foreground))
	}
	return style
}

// Category returns the style for the first label that has one.
func (s *Styles) Category(labels []string) (lipgloss.Style, bool) {
	for _, label := range labels {
		if style, ok := s.categories[label]; ok {
			return style, true
		}
	}
	return lipgloss.Style{}, false
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// Check NO_COLOR environment variable (https://no-color.org/)
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
