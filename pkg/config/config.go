// Package config defines core configuration types for codedeco.
// These types are pure data structures with no dependency on the loader that fills them.
package config

// OutputFormat specifies the output format for decorations.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatANSI    OutputFormat = "ansi"
	FormatSummary OutputFormat = "summary"
)

// IsValid reports whether f names a known output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatANSI, FormatSummary:
		return true
	default:
		return false
	}
}

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// Color modes accepted by the color setting.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Defaults applied by NewConfig.
const (
	DefaultSeparator   = `\n`
	DefaultLanguageKey = "language"
	DefaultBlockType   = "code"
)

// GrammarRule is one (category, pattern) pair of a user-defined grammar.
// Patterns use ECMAScript regular expression syntax.
type GrammarRule struct {
	Category string `yaml:"category"`
	Pattern  string `yaml:"pattern"`
}

// StyleConfig describes how a category is painted by the ansi renderer.
type StyleConfig struct {
	Foreground string `json:"foreground,omitempty" yaml:"foreground,omitempty"`
	Bold       bool   `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic     bool   `json:"italic,omitempty" yaml:"italic,omitempty"`
	Faint      bool   `json:"faint,omitempty" yaml:"faint,omitempty"`
	Underline  bool   `json:"underline,omitempty" yaml:"underline,omitempty"`
}

// IsZero reports whether the style sets nothing.
func (s StyleConfig) IsZero() bool {
	return s == StyleConfig{}
}

// Config is the root configuration structure for codedeco.
type Config struct {
	// Separator joins the text of consecutive text nodes before tokenizing.
	// Escapes such as `\n`, `\t` and `\u0000` are accepted.
	Separator string `yaml:"separator"`

	// LanguageKey is the block data key holding the grammar name.
	LanguageKey string `yaml:"language_key"`

	// BlockTypes lists the block types that get decorated.
	BlockTypes []string `yaml:"block_types"`

	// DefaultLanguage applies to code blocks without an info string.
	DefaultLanguage string `yaml:"default_language,omitempty"`

	// DetectLanguage enables content-based detection for code blocks
	// without an info string.
	DetectLanguage bool `yaml:"detect_language"`

	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// Aliases maps info-string words to grammar names.
	Aliases map[string]string `yaml:"aliases,omitempty"`

	// Grammars defines rule grammars keyed by name. A rule grammar replaces
	// a built-in grammar of the same name.
	Grammars map[string][]GrammarRule `yaml:"grammars,omitempty"`

	// Styles overrides the ansi style of a category.
	Styles map[string]StyleConfig `yaml:"styles,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Color is the color mode: auto, always or never.
	Color string `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Separator:      DefaultSeparator,
		LanguageKey:    DefaultLanguageKey,
		BlockTypes:     []string{DefaultBlockType},
		DetectLanguage: false,
		Flavor:         FlavorCommonMark,
		Aliases:        make(map[string]string),
		Grammars:       make(map[string][]GrammarRule),
		Styles:         make(map[string]StyleConfig),
		Format:         FormatText,
		Jobs:           0, // 0 means use GOMAXPROCS
		Color:          ColorAuto,
	}
}
