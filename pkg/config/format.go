package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrInvalidSeparator is returned when a separator does not decode to exactly one character.
var ErrInvalidSeparator = errors.New("invalid separator")

// ParseSeparator decodes a configured separator. Go escape sequences are
// accepted, so `\n`, `\t` and `\u0000` name control characters.
func ParseSeparator(s string) (rune, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidSeparator)
	}

	decoded := s
	if strings.ContainsRune(s, '\\') {
		unquoted, err := strconv.Unquote(`"` + s + `"`)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrInvalidSeparator, s, err)
		}
		decoded = unquoted
	}

	if utf8.RuneCountInString(decoded) != 1 {
		return 0, fmt.Errorf("%w: %q must be a single character", ErrInvalidSeparator, s)
	}

	r, _ := utf8.DecodeRuneInString(decoded)
	return r, nil
}

// FormatSeparator returns the escaped form of r, the inverse of ParseSeparator.
func FormatSeparator(r rune) string {
	if r == '\'' {
		return "'"
	}
	quoted := strconv.QuoteRune(r)
	return quoted[1 : len(quoted)-1]
}

// SeparatorRune returns the decoded separator.
func (c *Config) SeparatorRune() (rune, error) {
	return ParseSeparator(c.Separator)
}
