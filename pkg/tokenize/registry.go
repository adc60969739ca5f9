package tokenize

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownGrammar is returned when a language identifier resolves to no grammar.
var ErrUnknownGrammar = errors.New("unknown grammar")

// Grammar tokenizes text for one language.
// Implementations must return tokens whose concatenated text equals the input.
type Grammar interface {
	Tokenize(text string) ([]Token, error)
}

// GrammarFunc adapts a function to the Grammar interface.
type GrammarFunc func(text string) ([]Token, error)

// Tokenize implements Grammar.
func (f GrammarFunc) Tokenize(text string) ([]Token, error) {
	return f(text)
}

// FallbackFunc supplies a grammar for a name the registry does not hold.
type FallbackFunc func(name string) (Grammar, bool)

// Registry maps language identifiers to grammars.
// A Registry is built by its owner and handed to consumers; there is no
// package-level registry.
type Registry struct {
	mu       sync.RWMutex
	grammars map[string]Grammar
	aliases  map[string]string
	fallback FallbackFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		grammars: make(map[string]Grammar),
		aliases:  make(map[string]string),
	}
}

// Register adds or replaces the grammar for name.
// Names are case-insensitive.
func (r *Registry) Register(name string, grammar Grammar) {
	if name == "" || grammar == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grammars[normalizeName(name)] = grammar
}

// Alias makes alias resolve to the grammar registered as name.
func (r *Registry) Alias(alias, name string) {
	if alias == "" || name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[normalizeName(alias)] = normalizeName(name)
}

// SetFallback installs f to resolve names missing from the registry.
// Grammars it returns are registered, so each name is looked up once.
func (r *Registry) SetFallback(f FallbackFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = f
}

// Resolve returns the grammar for lang, following at most one alias.
func (r *Registry) Resolve(lang string) (Grammar, bool) {
	if r == nil || lang == "" {
		return nil, false
	}

	name := normalizeName(lang)
	if name == "" {
		return nil, false
	}

	r.mu.RLock()
	grammar, ok := r.lookup(name)
	fallback := r.fallback
	if target, aliased := r.aliases[name]; aliased {
		name = target
	}
	r.mu.RUnlock()

	if ok || fallback == nil {
		return grammar, ok
	}

	grammar, ok = fallback(name)
	if !ok || grammar == nil {
		return nil, false
	}
	r.Register(name, grammar)
	return grammar, true
}

// lookup must be called with r.mu held.
func (r *Registry) lookup(name string) (Grammar, bool) {
	if grammar, ok := r.grammars[name]; ok {
		return grammar, true
	}
	if target, ok := r.aliases[name]; ok {
		grammar, found := r.grammars[target]
		return grammar, found
	}
	return nil, false
}

// Languages returns the sorted registered grammar names, aliases excluded.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.grammars))
	for name := range r.grammars {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Aliases returns a copy of the alias table.
func (r *Registry) Aliases() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.aliases))
	for alias, name := range r.aliases {
		out[alias] = name
	}
	return out
}

// Tokenize resolves lang and tokenizes text with it.
// Returns an error wrapping ErrUnknownGrammar when lang does not resolve.
func (r *Registry) Tokenize(lang, text string) ([]Token, error) {
	grammar, ok := r.Resolve(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGrammar, lang)
	}

	tokens, err := grammar.Tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("tokenize %s: %w", lang, err)
	}
	return tokens, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
