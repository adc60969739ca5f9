package decorate

import (
	"fmt"
	"strings"

	"github.com/yaklabco/codedeco/pkg/document"
)

// Point addresses a character position inside one text node.
// Offset counts runes from the start of the node's text.
type Point struct {
	Key    document.Key
	Offset int
}

func (p Point) String() string {
	return fmt.Sprintf("%s:%d", p.Key, p.Offset)
}

// Range is an annotation over document text. Anchor never follows Focus in
// document order.
type Range struct {
	Anchor Point
	Focus  Point
	Labels []string
}

func (r Range) String() string {
	return fmt.Sprintf("[%s..%s] %s", r.Anchor, r.Focus, strings.Join(r.Labels, ","))
}

// HasLabel reports whether label is attached to the range.
func (r Range) HasLabel(label string) bool {
	for _, l := range r.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Segment is the part of a range that falls inside a single text node,
// as a half-open rune interval.
type Segment struct {
	Key   document.Key
	Start int
	End   int
}

// Segments splits r into one segment per text node it touches, in order.
// Returns nil when either end of r is not part of f.
func (f Flattened) Segments(r Range) []Segment {
	first := f.Index(r.Anchor.Key)
	last := f.Index(r.Focus.Key)
	if first < 0 || last < first {
		return nil
	}

	segments := make([]Segment, 0, last-first+1)
	for i := first; i <= last; i++ {
		seg := Segment{Key: f.Leaves[i].Key, Start: 0, End: f.Leaves[i].Len}
		if i == first {
			seg.Start = r.Anchor.Offset
		}
		if i == last {
			seg.End = r.Focus.Offset
		}
		if seg.End > seg.Start {
			segments = append(segments, seg)
		}
	}
	return segments
}
