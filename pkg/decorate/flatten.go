package decorate

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/codedeco/pkg/document"
)

// DefaultSeparator joins adjacent text nodes during flattening.
const DefaultSeparator = '\n'

// LeafSpan records which part of the flattened text a text node produced.
type LeafSpan struct {
	// Key identifies the text node.
	Key document.Key

	// Start is the byte index in Flattened.Text where the node's text begins (inclusive).
	Start int

	// End is the byte index where the node's text ends (exclusive).
	End int

	// Len is the node's text length in runes.
	Len int
}

// Flattened is the result of Flatten: the joined text plus the leaf record.
type Flattened struct {
	Text   string
	Sep    rune
	Leaves []LeafSpan
}

// Flatten concatenates the text of every text node under root, depth-first
// and left-to-right, with exactly one sep between each pair.
func Flatten(root *document.Node, sep rune) Flattened {
	flat := Flattened{Sep: sep}

	var sb strings.Builder
	for n := range document.Texts(root) {
		if len(flat.Leaves) > 0 {
			sb.WriteRune(sep)
		}
		text := n.Text()
		start := sb.Len()
		sb.WriteString(text)
		flat.Leaves = append(flat.Leaves, LeafSpan{
			Key:   n.Key,
			Start: start,
			End:   sb.Len(),
			Len:   utf8.RuneCountInString(text),
		})
	}

	flat.Text = sb.String()
	return flat
}

// IsEmpty reports whether no text nodes took part.
func (f Flattened) IsEmpty() bool {
	return len(f.Leaves) == 0
}

// LeafText returns the text contributed by leaf i.
func (f Flattened) LeafText(i int) string {
	if i < 0 || i >= len(f.Leaves) {
		return ""
	}
	span := f.Leaves[i]
	return f.Text[span.Start:span.End]
}

// Index returns the position of key in the leaf list, or -1.
func (f Flattened) Index(key document.Key) int {
	for i, span := range f.Leaves {
		if span.Key == key {
			return i
		}
	}
	return -1
}

// Separators returns the number of separators inserted between leaves.
func (f Flattened) Separators() int {
	if len(f.Leaves) == 0 {
		return 0
	}
	return len(f.Leaves) - 1
}
