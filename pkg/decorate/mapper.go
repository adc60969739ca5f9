package decorate

import (
	"unicode/utf8"

	"github.com/yaklabco/codedeco/pkg/tokenize"
)

// cursor walks the leaf list and the flattened text in lock-step.
type cursor struct {
	leaf   int // index into Flattened.Leaves
	offset int // runes consumed in the current leaf
	pos    int // bytes consumed in Flattened.Text
}

func (c cursor) point(flat Flattened) Point {
	return Point{Key: flat.Leaves[c.leaf].Key, Offset: c.offset}
}

// atLeafEnd reports whether the current leaf is fully consumed.
func (c cursor) atLeafEnd(flat Flattened) bool {
	return c.offset == flat.Leaves[c.leaf].Len
}

// remaining counts the leaf runes not yet consumed.
func (c cursor) remaining(flat Flattened) int {
	if c.leaf >= len(flat.Leaves) {
		return 0
	}
	n := flat.Leaves[c.leaf].Len - c.offset
	for _, span := range flat.Leaves[c.leaf+1:] {
		n += span.Len
	}
	return n
}

// Map converts a token stream over flat.Text into annotation ranges.
//
// A rune read while the cursor sits at the end of a leaf that has a
// successor is the separator: it moves the cursor to offset 0 of the next
// leaf without advancing any leaf-local offset. Every other rune advances the
// offset by one. A typed token yields one range from its first to its last
// non-separator rune; plain tokens and typed tokens made only of separators
// yield nothing.
//
// Map returns a *MismatchError wrapping ErrInconsistent when the tokens do
// not reproduce flat.Text.
func Map(flat Flattened, tokens []tokenize.Token) ([]Range, error) {
	var ranges []Range
	var cur cursor

	for i, tok := range tokens {
		text := tok.Text()
		if cur.pos+len(text) > len(flat.Text) {
			return nil, &MismatchError{TokenIndex: i, Pos: cur.pos, Reason: ReasonExhausted}
		}
		if flat.Text[cur.pos:cur.pos+len(text)] != text {
			return nil, &MismatchError{TokenIndex: i, Pos: cur.pos, Reason: ReasonDiverged}
		}

		var start, end Point
		chars := 0

		for rest := text; rest != ""; {
			_, size := utf8.DecodeRuneInString(rest)
			rest = rest[size:]

			if cur.atLeafEnd(flat) {
				if cur.leaf+1 >= len(flat.Leaves) {
					return nil, &MismatchError{TokenIndex: i, Pos: cur.pos, Reason: ReasonExhausted}
				}
				cur = cursor{leaf: cur.leaf + 1, offset: 0, pos: cur.pos + size}
				continue
			}

			if chars == 0 {
				start = cur.point(flat)
			}
			cur.offset++
			cur.pos += size
			chars++
			end = cur.point(flat)
		}

		category, typed := tok.Category()
		if !typed || chars == 0 {
			continue
		}
		ranges = append(ranges, Range{Anchor: start, Focus: end, Labels: []string{category}})
	}

	// Trailing separators carry no leaf text, so a stream may stop before them.
	if cur.pos < len(flat.Text) && cur.remaining(flat) > 0 {
		return nil, &MismatchError{TokenIndex: len(tokens), Pos: cur.pos, Reason: ReasonShort}
	}

	return ranges, nil
}
