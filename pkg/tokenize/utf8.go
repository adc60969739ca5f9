package tokenize

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// sanitizeUTF8 replaces each invalid byte of text with U+FFFD. One byte
// becomes one replacement rune, so the rune count of text is unchanged.
func sanitizeUTF8(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 2*utf8.UTFMax)
	for rest := text; rest != ""; {
		r, size := utf8.DecodeRuneInString(rest)
		b.WriteRune(r)
		rest = rest[size:]
	}
	return b.String()
}

// restoreText replaces the text of each token with the same number of runes
// cut from original. tokens must come from a text with original's rune
// count, such as sanitizeUTF8(original).
func restoreText(tokens []Token, original string) ([]Token, error) {
	rest := original
	for i, tok := range tokens {
		cut := 0
		for range tok.Len() {
			if cut >= len(rest) {
				return nil, fmt.Errorf("%w: token %d runs past the input", ErrInvalidStream, i)
			}
			_, size := utf8.DecodeRuneInString(rest[cut:])
			cut += size
		}
		tokens[i].text = rest[:cut]
		rest = rest[cut:]
	}
	return tokens, nil
}
