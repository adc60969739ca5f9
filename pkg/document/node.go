package document

import "strings"

// Kind classifies a node as a block, an inline or a text node.
type Kind uint8

// Node kinds.
const (
	KindBlock Kind = iota
	KindInline
	KindText
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindInline:
		return "inline"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Node is a single node in a document tree.
// Blocks and inlines own children and a data map; text nodes own leaves.
type Node struct {
	// Kind identifies what variant this node is.
	Kind Kind

	// Key is the stable identity of the node.
	Key Key

	// Type is the block or inline type name ("code", "code_line", "link", ...).
	// Empty for text nodes.
	Type string

	// Data holds untyped properties of blocks and inlines.
	Data map[string]any

	// Leaves holds the text runs of a text node.
	Leaves []Leaf

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node
}

// IsBlock returns true if this is a block node.
func (n *Node) IsBlock() bool {
	return n.Kind == KindBlock
}

// IsInline returns true if this is an inline node.
func (n *Node) IsInline() bool {
	return n.Kind == KindInline
}

// IsText returns true if this is a text node.
func (n *Node) IsText() bool {
	return n.Kind == KindText
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// Text returns the text of the node.
// For a text node it is the concatenation of its leaves; for other nodes it is
// the concatenation of all descendant text nodes with nothing in between.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText {
		if len(n.Leaves) == 1 {
			return n.Leaves[0].Text
		}
		var sb strings.Builder
		for _, leaf := range n.Leaves {
			sb.WriteString(leaf.Text)
		}
		return sb.String()
	}

	var sb strings.Builder
	for text := range Texts(n) {
		sb.WriteString(text.Text())
	}
	return sb.String()
}

// DataString returns the string value stored under key in the node's data map.
// Returns "" when the key is absent or holds a non-string value.
func (n *Node) DataString(key string) string {
	if n == nil || n.Data == nil {
		return ""
	}
	value, ok := n.Data[key].(string)
	if !ok {
		return ""
	}
	return value
}

// DataInt returns the int value stored under key, or 0.
func (n *Node) DataInt(key string) int {
	if n == nil || n.Data == nil {
		return 0
	}
	switch value := n.Data[key].(type) {
	case int:
		return value
	case int64:
		return int(value)
	default:
		return 0
	}
}
