package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every style and an example grammar.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// DefaultStyles returns the ansi styles used for categories the
// configuration does not override.
func DefaultStyles() map[string]StyleConfig {
	return map[string]StyleConfig{
		"comment":     {Faint: true, Italic: true},
		"keyword":     {Bold: true, Foreground: "12"},
		"punctuation": {Foreground: "8"},
		"operator":    {Foreground: "14"},
		"string":      {Foreground: "10"},
		"number":      {Foreground: "13"},
		"literal":     {Foreground: "13"},
		"function":    {Foreground: "11"},
		"class":       {Foreground: "11", Bold: true},
		"builtin":     {Foreground: "6"},
		"tag":         {Foreground: "12"},
		"attr-name":   {Foreground: "11"},
		"property":    {Foreground: "6"},
		"variable":    {Foreground: "7"},
		"generic":     {Underline: true},
	}
}

// categoryDescriptions documents the categories produced by the built-in grammars.
//
//nolint:gochecknoglobals // Read-only lookup table.
var categoryDescriptions = map[string]string{
	"comment":     "Line and block comments, including doc comments and hashbangs",
	"keyword":     "Reserved words, declarations and keyword constants such as true and null",
	"punctuation": "Brackets, separators and other structural punctuation",
	"operator":    "Arithmetic, comparison and word operators",
	"string":      "String, character and regular expression literals",
	"number":      "Integer, float and other numeric literals",
	"literal":     "Other literals such as dates",
	"function":    "Function and method names at definition and call sites",
	"class":       "Class, type and namespace names",
	"builtin":     "Names of built-in functions and types",
	"tag":         "Markup tag names",
	"attr-name":   "Markup attribute names",
	"property":    "Object properties and CSS property names",
	"variable":    "Variables and other identifiers",
	"generic":     "Generic tokens such as headings, inserted and deleted lines",
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		return generateFullTemplate(opts)
	}
	return generateMinimalTemplate(opts)
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate(opts TemplateOptions) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Markdown flavor: commonmark or gfm
flavor: commonmark

# Character joining consecutive lines of a code block before tokenizing
separator: '\n'

# Block types that get decorated
block_types:
  - code

# Detect the language of code blocks that have no info string
# detect_language: false

# Language for code blocks that have no info string and no detection result
# default_language: text

# Map info-string words to grammar names
# aliases:
#   javascript: js
#   sh: bash

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`)

	if opts.Format == "json" {
		return templateToJSON()
	}

	return buf.Bytes(), nil
}

// generateFullTemplate creates a full template with every style documented.
func generateFullTemplate(opts TemplateOptions) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`# codedeco configuration - Full Template
# See: https://github.com/yaklabco/codedeco
#
# This template lists every setting with its default value.
# Uncomment and modify settings as needed.

# Markdown flavor: commonmark or gfm
flavor: commonmark

# Character joining consecutive text nodes before tokenizing.
# Go escapes are accepted: '\n', '\t', '\u0000'.
separator: '\n'

# Block data key that holds the grammar name
language_key: language

# Block types that get decorated
block_types:
  - code

# Detect the language of code blocks that have no info string
detect_language: false

# Language for code blocks that have no info string and no detection result
# default_language: text

# Map info-string words to grammar names
aliases:
  javascript: js

# File patterns to ignore (glob patterns)
ignore:
  - "vendor/**"
  - "node_modules/**"
  - ".git/**"

# Rule grammars. Rules apply in order; earlier rules win.
# Patterns use ECMAScript regular expression syntax.
# grammars:
#   ini:
#     - category: comment
#       pattern: '^[;#].*'
#     - category: keyword
#       pattern: '^\[[^\]]*\]'
#     - category: property
#       pattern: '^[\w.-]+(?=\s*=)'

# Category styles for the ansi output format
styles:
`)

	styles := DefaultStyles()
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if desc, ok := categoryDescriptions[name]; ok {
			buf.WriteString(fmt.Sprintf("\n  # %s\n", wrapComment(desc, commentWrapWidth)))
		}
		buf.WriteString(fmt.Sprintf("  %s:\n", name))
		writeStyle(&buf, styles[name])
	}

	if opts.Format == "json" {
		return templateToJSON()
	}

	return buf.Bytes(), nil
}

func writeStyle(buf *bytes.Buffer, style StyleConfig) {
	if style.Foreground != "" {
		buf.WriteString(fmt.Sprintf("    foreground: %q\n", style.Foreground))
	}
	for _, attr := range []struct {
		name string
		set  bool
	}{
		{"bold", style.Bold},
		{"italic", style.Italic},
		{"faint", style.Faint},
		{"underline", style.Underline},
	} {
		if attr.set {
			buf.WriteString(fmt.Sprintf("    %s: true\n", attr.name))
		}
	}
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// templateToJSON renders the default configuration as JSON. Comments have
// no JSON form, so both template variants produce the same document.
func templateToJSON() ([]byte, error) {
	defaults := NewConfig()

	cfg := map[string]any{
		"flavor":          string(defaults.Flavor),
		"separator":       defaults.Separator,
		"language_key":    defaults.LanguageKey,
		"block_types":     slices.Clone(defaults.BlockTypes),
		"detect_language": defaults.DetectLanguage,
		"aliases":         map[string]string{"javascript": "js"},
		"ignore":          []string{"vendor/**", "node_modules/**", ".git/**"},
		"styles":          DefaultStyles(),
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# codedeco configuration
# See: https://github.com/yaklabco/codedeco`
}
