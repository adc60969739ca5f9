package goldmark

import "sort"

// lineIndex converts byte offsets to 1-based line numbers.
type lineIndex struct {
	starts []int
}

func newLineIndex(content []byte) lineIndex {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{starts: starts}
}

// lineAt returns the line containing offset, or 0 when offset is negative.
func (l lineIndex) lineAt(offset int) int {
	if offset < 0 {
		return 0
	}
	return sort.Search(len(l.starts), func(i int) bool {
		return l.starts[i] > offset
	})
}
