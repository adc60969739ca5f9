package tokenize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Category labels emitted by the chroma-backed grammars.
const (
	CategoryKeyword     = "keyword"
	CategoryName        = "name"
	CategoryFunction    = "function"
	CategoryClass       = "class"
	CategoryBuiltin     = "builtin"
	CategoryTag         = "tag"
	CategoryAttribute   = "attr-name"
	CategoryProperty    = "property"
	CategoryVariable    = "variable"
	CategoryString      = "string"
	CategoryNumber      = "number"
	CategoryLiteral     = "literal"
	CategoryOperator    = "operator"
	CategoryPunctuation = "punctuation"
	CategoryComment     = "comment"
	CategoryGeneric     = "generic"
)

// DefaultLanguages are registered by every NewDefaultRegistry call.
var DefaultLanguages = []string{"css", "js", "html"} //nolint:gochecknoglobals // Read-only list.

// stalledLexers never return on some inputs, so they are not offered.
//
//nolint:gochecknoglobals // Read-only set.
var stalledLexers = map[string]bool{
	"jsonata": true,
	"jungle":  true,
}

// ChromaGrammar is a Grammar backed by a chroma lexer.
type ChromaGrammar struct {
	lexer chroma.Lexer
}

// NewChromaGrammar looks up a chroma lexer by name, alias or file extension.
// Returns an error wrapping ErrUnknownGrammar when chroma has no such lexer.
func NewChromaGrammar(name string) (*ChromaGrammar, error) {
	lexer := lexers.Get(name)
	if lexer == nil {
		return nil, fmt.Errorf("%w: chroma has no lexer %q", ErrUnknownGrammar, name)
	}
	if stalledLexers[strings.ToLower(lexer.Config().Name)] {
		return nil, fmt.Errorf("%w: chroma lexer %q is disabled", ErrUnknownGrammar, lexer.Config().Name)
	}
	return &ChromaGrammar{lexer: lexer}, nil
}

// Name returns the chroma lexer name.
func (g *ChromaGrammar) Name() string {
	return g.lexer.Config().Name
}

// Tokenize implements Grammar.
func (g *ChromaGrammar) Tokenize(text string) ([]Token, error) {
	if text == "" {
		return nil, nil
	}

	// Chroma rewrites invalid bytes as U+FFFD; lex a copy with one
	// replacement per byte and cut the token texts back out of text.
	source, sanitized := text, !utf8.ValidString(text)
	if sanitized {
		source = sanitizeUTF8(text)
	}

	// EnsureLF would rewrite CRLF and break length conservation.
	iterator, err := g.lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, source)
	if err != nil {
		return nil, fmt.Errorf("chroma %s: %w", g.Name(), err)
	}

	var out []Token
	for _, tok := range iterator.Tokens() {
		if tok.Value == "" {
			continue
		}
		if category, typed := chromaCategory(tok.Type); typed {
			out = append(out, Typed(category, tok.Value))
		} else {
			out = append(out, Plain(tok.Value))
		}
	}

	out = trimToLength(out, len(source))
	if sanitized {
		if out, err = restoreText(out, text); err != nil {
			return nil, fmt.Errorf("chroma %s: %w", g.Name(), err)
		}
	}

	return Coalesce(out), nil
}

// trimToLength cuts tokens so their total byte length is at most n.
// Lexers configured with EnsureNL may append a newline the input never had.
func trimToLength(tokens []Token, n int) []Token {
	total := 0
	for i, tok := range tokens {
		if total+len(tok.text) > n {
			tokens[i].text = tok.text[:n-total]
			return tokens[:i+1]
		}
		total += len(tok.text)
	}
	return tokens
}

// chromaCategory maps a chroma token type to a category label.
// The second result is false for runs that should stay plain.
func chromaCategory(tt chroma.TokenType) (string, bool) {
	switch {
	case tt < 0, tt.InCategory(chroma.Text):
		return "", false
	case tt.InCategory(chroma.Keyword):
		return CategoryKeyword, true
	case tt.InSubCategory(chroma.NameFunction):
		return CategoryFunction, true
	case tt.InSubCategory(chroma.NameBuiltin):
		return CategoryBuiltin, true
	case tt.InSubCategory(chroma.NameVariable):
		return CategoryVariable, true
	case tt == chroma.NameClass:
		return CategoryClass, true
	case tt == chroma.NameTag:
		return CategoryTag, true
	case tt == chroma.NameAttribute:
		return CategoryAttribute, true
	case tt == chroma.NameProperty:
		return CategoryProperty, true
	case tt.InCategory(chroma.Name):
		return CategoryName, true
	case tt.InSubCategory(chroma.LiteralString):
		return CategoryString, true
	case tt.InSubCategory(chroma.LiteralNumber):
		return CategoryNumber, true
	case tt.InCategory(chroma.Literal):
		return CategoryLiteral, true
	case tt.InCategory(chroma.Operator):
		return CategoryOperator, true
	case tt.InCategory(chroma.Punctuation):
		return CategoryPunctuation, true
	case tt.InCategory(chroma.Comment):
		return CategoryComment, true
	case tt.InCategory(chroma.Generic):
		return CategoryGeneric, true
	default:
		return "", false
	}
}

// RegisterChroma registers a chroma grammar for each name.
// Names chroma does not know are returned so the caller can report them.
func RegisterChroma(registry *Registry, names ...string) []string {
	var missing []string
	for _, name := range names {
		grammar, err := NewChromaGrammar(name)
		if err != nil {
			missing = append(missing, name)
			continue
		}
		registry.Register(name, grammar)
	}
	return missing
}

// NewDefaultRegistry returns a registry holding chroma grammars for
// DefaultLanguages plus the given extra languages.
func NewDefaultRegistry(extra ...string) (*Registry, []string) {
	registry := NewRegistry()
	names := append(append([]string{}, DefaultLanguages...), extra...)
	missing := RegisterChroma(registry, names...)
	registry.Alias("javascript", "js")
	return registry, missing
}

// ChromaFallback is a FallbackFunc resolving any name chroma knows.
func ChromaFallback(name string) (Grammar, bool) {
	grammar, err := NewChromaGrammar(name)
	if err != nil {
		return nil, false
	}
	return grammar, true
}

// ChromaLanguages returns every lexer name chroma knows, for listings.
func ChromaLanguages() []string {
	var names []string
	for _, name := range lexers.Names(false) {
		if !stalledLexers[strings.ToLower(name)] {
			names = append(names, name)
		}
	}
	return names
}
