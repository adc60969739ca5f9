package document

import "slices"

// Mark is a whole-leaf label such as "bold" or "code".
type Mark struct {
	Type string
}

// Leaf is an immutable run of text with the marks applied to all of it.
type Leaf struct {
	Text  string
	Marks []Mark
}

// NewLeaf creates a leaf with the given text and mark types.
func NewLeaf(text string, marks ...string) Leaf {
	leaf := Leaf{Text: text}
	for _, mark := range marks {
		leaf.Marks = append(leaf.Marks, Mark{Type: mark})
	}
	return leaf
}

// HasMark returns true if the leaf carries a mark of the given type.
func (l Leaf) HasMark(markType string) bool {
	return slices.ContainsFunc(l.Marks, func(m Mark) bool {
		return m.Type == markType
	})
}

// clone returns a copy of the leaf that shares no slices with the original.
func (l Leaf) clone() Leaf {
	return Leaf{Text: l.Text, Marks: slices.Clone(l.Marks)}
}
