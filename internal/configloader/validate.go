package configloader

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/codedeco/pkg/config"
	"github.com/yaklabco/codedeco/pkg/tokenize"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "grammars.ini[0].pattern").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., styles for unknown categories).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err joins every validation error, or returns nil when there are none.
func (r *ValidationResult) Err() error {
	errs := make([]error, 0, len(r.Errors))
	for i := range r.Errors {
		errs = append(errs, &r.Errors[i])
	}
	return errors.Join(errs...)
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownFlavors lists valid flavor values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFlavors = map[config.Flavor]bool{
	config.FlavorCommonMark: true,
	config.FlavorGFM:        true,
}

// knownColorModes lists valid color mode values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownColorModes = map[string]bool{
	config.ColorAuto:   true,
	config.ColorAlways: true,
	config.ColorNever:  true,
}

// builtinCategories lists the categories the chroma grammars produce.
//
//nolint:gochecknoglobals // Read-only lookup table.
var builtinCategories = []string{
	tokenize.CategoryKeyword, tokenize.CategoryName, tokenize.CategoryFunction,
	tokenize.CategoryClass, tokenize.CategoryBuiltin, tokenize.CategoryTag,
	tokenize.CategoryAttribute, tokenize.CategoryProperty, tokenize.CategoryVariable,
	tokenize.CategoryString, tokenize.CategoryNumber, tokenize.CategoryLiteral,
	tokenize.CategoryOperator, tokenize.CategoryPunctuation, tokenize.CategoryComment,
	tokenize.CategoryGeneric,
}

//nolint:gochecknoglobals // Compiled once.
var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	if cfg.Flavor != "" && !knownFlavors[cfg.Flavor] {
		result.addError("flavor", cfg.Flavor,
			fmt.Sprintf("invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor))
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format,
			fmt.Sprintf("invalid format %q; must be one of: text, json, ansi, summary", cfg.Format))
	}

	if cfg.Color != "" && !knownColorModes[cfg.Color] {
		result.addError("color", cfg.Color,
			fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color))
	}

	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if _, err := config.ParseSeparator(cfg.Separator); err != nil {
		result.addError("separator", cfg.Separator, err.Error())
	}

	if strings.TrimSpace(cfg.LanguageKey) == "" {
		result.addError("language_key", cfg.LanguageKey, "language_key must not be empty")
	}

	if len(cfg.BlockTypes) == 0 {
		result.addError("block_types", cfg.BlockTypes, "at least one block type is required")
	}
	for i, blockType := range cfg.BlockTypes {
		if strings.TrimSpace(blockType) == "" {
			result.addError(fmt.Sprintf("block_types[%d]", i), blockType, "block type must not be empty")
		}
	}

	for alias, name := range cfg.Aliases {
		if strings.TrimSpace(alias) == "" || strings.TrimSpace(name) == "" {
			result.addError("aliases", alias, fmt.Sprintf("alias %q -> %q must name both sides", alias, name))
		}
	}

	validateGrammars(cfg, result)
	validateStyles(cfg, result)
	validateIgnorePatterns(cfg, result)

	return result
}

func (r *ValidationResult) addError(field string, value any, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: message})
}

func (r *ValidationResult) addWarning(field string, value any, message string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: message})
}

// validateGrammars compiles every rule grammar so that bad patterns surface
// at load time instead of on the first code block that uses them.
func validateGrammars(cfg *config.Config, result *ValidationResult) {
	for _, name := range sortedKeys(cfg.Grammars) {
		rules := cfg.Grammars[name]
		field := "grammars." + name

		if len(rules) == 0 {
			result.addWarning(field, name, fmt.Sprintf("grammar %q has no rules; every token will be plain", name))
			continue
		}

		for i, rule := range rules {
			_, err := tokenize.NewRuleGrammar([]tokenize.Rule{{Category: rule.Category, Pattern: rule.Pattern}})
			if err != nil {
				result.addError(fmt.Sprintf("%s[%d]", field, i), rule.Pattern, err.Error())
			}
		}
	}
}

// validateStyles checks colors and warns about styles no grammar can use.
func validateStyles(cfg *config.Config, result *ValidationResult) {
	known := make(map[string]bool, len(builtinCategories))
	for _, category := range builtinCategories {
		known[category] = true
	}
	for _, rules := range cfg.Grammars {
		for _, rule := range rules {
			known[rule.Category] = true
		}
	}

	for _, category := range sortedKeys(cfg.Styles) {
		style := cfg.Styles[category]
		field := "styles." + category

		if !known[category] {
			result.addWarning(field, category,
				fmt.Sprintf("no grammar produces category %q; the style is unused", category))
		}
		if style.Foreground != "" && !IsValidColor(style.Foreground) {
			result.addError(field+".foreground", style.Foreground,
				fmt.Sprintf("invalid color %q; use an ANSI index 0-255 or #rrggbb", style.Foreground))
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			result.addError(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern")
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFlavor returns true if the flavor is valid.
func IsValidFlavor(f config.Flavor) bool {
	return knownFlavors[f]
}

// IsValidColorMode returns true if the color mode is valid.
func IsValidColorMode(mode string) bool {
	return knownColorModes[mode]
}

// IsValidColor reports whether c is an ANSI color index or a hex color.
func IsValidColor(c string) bool {
	if hexColor.MatchString(c) {
		return true
	}
	n, err := strconv.Atoi(c)
	return err == nil && n >= 0 && n <= 255
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
