package tokenize

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind distinguishes the two token variants.
type Kind uint8

// Token variants.
const (
	// KindPlain is an uncategorized run.
	KindPlain Kind = iota

	// KindTyped is a run carrying a lexical category.
	KindTyped
)

// String returns the lowercase name of the variant.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindTyped:
		return "typed"
	default:
		return "unknown"
	}
}

// Token is a contiguous run of tokenizer output.
// Use Plain and Typed to construct tokens; the category is only present on
// typed tokens.
type Token struct {
	kind     Kind
	category string
	text     string
}

// Plain returns an uncategorized token.
func Plain(text string) Token {
	return Token{kind: KindPlain, text: text}
}

// Typed returns a token with the given category.
func Typed(category, text string) Token {
	return Token{kind: KindTyped, category: category, text: text}
}

// Kind returns the token variant.
func (t Token) Kind() Kind {
	return t.kind
}

// Text returns the token text.
func (t Token) Text() string {
	return t.text
}

// Category returns the category of a typed token.
// The second result is false for plain tokens.
func (t Token) Category() (string, bool) {
	if t.kind != KindTyped {
		return "", false
	}
	return t.category, true
}

// Len returns the length of the token in characters (runes).
func (t Token) Len() int {
	return utf8.RuneCountInString(t.text)
}

// IsEmpty returns true if the token has no text.
func (t Token) IsEmpty() bool {
	return t.text == ""
}

// String renders the token for debugging, e.g. Typed("keyword","var").
func (t Token) String() string {
	if t.kind == KindTyped {
		return fmt.Sprintf("Typed(%q,%q)", t.category, t.text)
	}
	return fmt.Sprintf("Plain(%q)", t.text)
}

// sameClass reports whether two tokens can be merged into one.
func (t Token) sameClass(other Token) bool {
	return t.kind == other.kind && t.category == other.category
}

// Concat returns the concatenated text of tokens.
func Concat(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.text)
	}
	return sb.String()
}

// Coalesce drops empty tokens and merges adjacent tokens of the same class.
// The input slice is not modified.
func Coalesce(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsEmpty() {
			continue
		}
		if n := len(out); n > 0 && out[n-1].sameClass(tok) {
			out[n-1].text += tok.text
			continue
		}
		out = append(out, tok)
	}
	return out
}
