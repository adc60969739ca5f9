package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/codedeco/internal/ui/pretty"
	"github.com/yaklabco/codedeco/pkg/config"
	"github.com/yaklabco/codedeco/pkg/tokenize"
)

// exampleLanguage is the grammar used to paint the example commands in help.
const exampleLanguage = "bash"

// HelpStyles contains Lipgloss styles for command help formatting.
// Colors are taken from the category palette the ansi output uses.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Alias       lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	plain := lipgloss.NewStyle()
	if !colorEnabled {
		return &HelpStyles{
			Command:     plain,
			Heading:     plain,
			Subcommand:  plain,
			Flag:        plain,
			Description: plain,
			Alias:       plain,
			Dim:         plain,
		}
	}

	palette := config.DefaultStyles()
	return &HelpStyles{
		Command:     pretty.StyleFromConfig(palette["function"]).Bold(true),
		Heading:     pretty.StyleFromConfig(palette["keyword"]),
		Subcommand:  pretty.StyleFromConfig(palette["string"]),
		Flag:        pretty.StyleFromConfig(palette["property"]),
		Description: plain,
		Alias:       pretty.StyleFromConfig(palette["comment"]),
		Dim:         pretty.StyleFromConfig(palette["comment"]),
	}
}

// HelpFormatter provides styled help output for Cobra commands.
// Example command lines in a command's description are painted with the
// shell grammar, the same way code blocks are.
type HelpFormatter struct {
	styles  *HelpStyles
	painter *pretty.Styles
	grammar tokenize.Grammar
}

// NewHelpFormatter creates a new help formatter with the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	colorEnabled := pretty.IsColorEnabled(colorMode, writer)
	h := &HelpFormatter{
		styles:  NewHelpStyles(colorEnabled),
		painter: pretty.NewStyles(colorEnabled, nil),
	}
	if colorEnabled {
		if grammar, ok := tokenize.ChromaFallback(exampleLanguage); ok {
			h.grammar = grammar
		}
	}
	return h
}

func (h *HelpFormatter) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"styleCommand":            h.styles.Command.Render,
		"styleHeading":            h.styles.Heading.Render,
		"styleSubcommand":         h.styles.Subcommand.Render,
		"styleDescription":        h.styles.Description.Render,
		"styleAlias":              h.styles.Alias.Render,
		"styleDim":                h.styles.Dim.Render,
		"styleFlagsUsage":         h.styleFlagsUsage,
		"paintExamples":           h.paintExamples,
		"paintDescription":        h.paintDescription,
		"rpad":                    rpad,
		"join":                    strings.Join,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}
}

func (h *HelpFormatter) usageTemplate() string {
	return `{{ styleHeading "Usage:" }}
  {{if .Runnable}}{{ styleCommand .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ styleCommand .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ styleHeading "Aliases:" }}
  {{ styleAlias (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ styleHeading "Examples:" }}
{{ paintExamples .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ styleHeading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ styleFlagsUsage .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ styleFlagsUsage .InheritedFlags }}
{{- end}}

{{- if .HasHelpSubCommands}}

{{ styleHeading "Additional help topics:" }}{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{ styleSubcommand (rpad .CommandPath .CommandPathPadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`
}

func (h *HelpFormatter) helpTemplate() string {
	return `{{if or .Runnable .HasSubCommands}}{{ styleCommand .CommandPath }}{{if .Version}} {{ styleDim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces | paintDescription }}

{{end}}` + h.usageTemplate()
}

// paintDescription paints the indented lines that follow an "Examples:"
// line in a command description.
func (h *HelpFormatter) paintDescription(text string) string {
	head, examples, found := strings.Cut(text, "Examples:\n")
	if !found {
		return text
	}
	return head + "Examples:\n" + h.paintExamples(examples)
}

// paintExamples paints every indented line of text as a shell command.
func (h *HelpFormatter) paintExamples(text string) string {
	if h.grammar == nil {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "  ") {
			lines[i] = h.paintCommandLine(line)
		}
	}
	return strings.Join(lines, "\n")
}

// paintCommandLine tokenizes line with the shell grammar and paints it.
// A line the grammar cannot tokenize is returned as is.
func (h *HelpFormatter) paintCommandLine(line string) string {
	tokens, err := h.grammar.Tokenize(line)
	if err != nil || tokenize.ValidateTokens(tokens, line) != nil {
		return line
	}

	var spans []pretty.Span
	offset := 0
	for _, tok := range tokens {
		if category, ok := tok.Category(); ok {
			spans = append(spans, pretty.Span{Start: offset, End: offset + tok.Len(), Labels: []string{category}})
		}
		offset += tok.Len()
	}
	return h.painter.Paint(line, spans)
}

// styleFlagsUsage formats pflag usage text with styled flag names.
func (h *HelpFormatter) styleFlagsUsage(flags any) string {
	flagUsages, ok := flags.(interface{ FlagUsages() string })
	if !ok {
		return ""
	}

	usages := strings.TrimSuffix(flagUsages.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine styles one "  -f, --flag type   description" line.
func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	flagPart, descPart, ok := splitFlagLine(trimmed)
	if !ok {
		return line
	}

	indent := line[:len(line)-len(trimmed)]
	return indent + h.styleFlagPart(flagPart) + "   " + h.styles.Description.Render(descPart)
}

// splitFlagLine splits a flag line at the first run of two or more spaces.
func splitFlagLine(line string) (string, string, bool) {
	idx := strings.Index(line, "  ")
	if idx < 0 {
		return "", "", false
	}
	desc := strings.TrimLeft(line[idx:], " ")
	if desc == "" {
		return "", "", false
	}
	return strings.TrimRight(line[:idx], " "), desc, true
}

// styleFlagPart colors flag names and dims the value type.
func (h *HelpFormatter) styleFlagPart(flagPart string) string {
	fields := strings.Fields(flagPart)
	for i, field := range fields {
		if !strings.HasPrefix(field, "-") {
			fields[i] = h.styles.Dim.Render(field)
			continue
		}
		name, comma := strings.CutSuffix(field, ",")
		fields[i] = h.styles.Flag.Render(name)
		if comma {
			fields[i] += ","
		}
	}
	return strings.Join(fields, " ")
}

// ApplyToCommand applies styled help templates to a Cobra command and all subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.templateFuncs()

	cmd.SetUsageTemplate(h.usageTemplate())
	cmd.SetHelpTemplate(h.helpTemplate())

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		tmpl, err := template.New("usage").Funcs(funcs).Parse(h.usageTemplate())
		if err != nil {
			return fmt.Errorf("parse usage template: %w", err)
		}
		return tmpl.Execute(command.OutOrStdout(), command)
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		tmpl, err := template.New("help").Funcs(funcs).Parse(h.helpTemplate())
		if err != nil {
			command.PrintErrln(err)
			return
		}
		if err := tmpl.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
