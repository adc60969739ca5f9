package tokenize

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidStream is returned when a token stream does not reconstruct its input.
var ErrInvalidStream = errors.New("invalid token stream")

// ValidateTokens checks that tokens are contiguous and cover text exactly:
// their concatenation must equal text, with no gaps and no overlaps.
func ValidateTokens(tokens []Token, text string) error {
	pos := 0
	for i, tok := range tokens {
		if !strings.HasPrefix(text[pos:], tok.text) {
			return fmt.Errorf("%w: token %d %s does not match input at byte %d", ErrInvalidStream, i, tok, pos)
		}
		pos += len(tok.text)
	}

	if pos != len(text) {
		return fmt.Errorf("%w: tokens cover %d of %d bytes", ErrInvalidStream, pos, len(text))
	}

	return nil
}
