package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/codedeco/pkg/decorate"
)

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, rangeCount int) string {
	header := s.FilePath.Render(path)
	if rangeCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d ranges)", rangeCount))
	}
	return header
}

// FormatRange formats one range as "  path:line  anchor..focus  labels".
func (s *Styles) FormatRange(path string, line int, rng decorate.Range) string {
	location := fmt.Sprintf("%s:%d", s.FilePath.Render(path), line)
	span := s.Location.Render(fmt.Sprintf("%s..%s", rng.Anchor, rng.Focus))
	return fmt.Sprintf("  %s  %s  %s\n", location, span, s.Label.Render(strings.Join(rng.Labels, ",")))
}

// FormatBlockError formats a block that could not be decorated.
func (s *Styles) FormatBlockError(path string, line int, lang string, err error) string {
	location := fmt.Sprintf("%s:%d", s.FilePath.Render(path), line)
	return fmt.Sprintf("  %s  %s  %s\n", location, s.Error.Render("error"), s.Dim.Render(lang+": ")+err.Error())
}

// Span is a half-open rune interval of one text node carrying labels.
type Span struct {
	Start  int
	End    int
	Labels []string
}

// Paint renders text with each span drawn in the style of its labels.
// Runes outside any span, or in spans whose labels have no style, stay plain.
// A later span wins where spans overlap.
func (s *Styles) Paint(text string, spans []Span) string {
	if len(spans) == 0 || len(s.categories) == 0 {
		return text
	}

	runes := []rune(text)
	owner := make([]int, len(runes))
	for i := range owner {
		owner[i] = -1
	}
	for i, span := range spans {
		for j := max(span.Start, 0); j < min(span.End, len(runes)); j++ {
			owner[j] = i
		}
	}

	var sb strings.Builder
	for start := 0; start < len(runes); {
		end := start + 1
		for end < len(runes) && owner[end] == owner[start] {
			end++
		}

		chunk := string(runes[start:end])
		if idx := owner[start]; idx >= 0 {
			if style, ok := s.Category(spans[idx].Labels); ok {
				chunk = style.Render(chunk)
			}
		}
		sb.WriteString(chunk)
		start = end
	}
	return sb.String()
}
