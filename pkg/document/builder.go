package document

import "maps"

// NewNode creates a new node of the specified kind with a fresh key.
// The node has no parent, children, data or leaves.
func NewNode(kind Kind) *Node {
	return &Node{
		Kind: kind,
		Key:  NewKey(),
	}
}

// NewBlock creates a block node of the given type.
// The data map is copied; nil is allowed.
func NewBlock(blockType string, data map[string]any) *Node {
	node := NewNode(KindBlock)
	node.Type = blockType
	node.Data = maps.Clone(data)
	return node
}

// NewInline creates an inline node of the given type.
func NewInline(inlineType string, data map[string]any) *Node {
	node := NewNode(KindInline)
	node.Type = inlineType
	node.Data = maps.Clone(data)
	return node
}

// NewText creates a text node holding the given leaves.
func NewText(leaves ...Leaf) *Node {
	node := NewNode(KindText)
	node.Leaves = leaves
	return node
}

// NewDocument creates a new document root block.
func NewDocument() *Node {
	return NewBlock(TypeDocument, nil)
}

// SetKey replaces the key of a node and returns it for chaining.
func SetKey(n *Node, key Key) *Node {
	if n != nil {
		n.Key = key
	}
	return n
}

// SetData stores value under key in the node's data map.
// Text nodes carry no data; the call is ignored for them.
func SetData(n *Node, key string, value any) {
	if n == nil || n.Kind == KindText {
		return
	}
	if n.Data == nil {
		n.Data = make(map[string]any)
	}
	n.Data[key] = value
}

// AppendChild appends a child node to a parent.
// It maintains the parent/child/sibling relationships correctly.
// Text nodes cannot own children; the call is ignored for them.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil || parent.Kind == KindText {
		return
	}

	if child.Parent != nil {
		RemoveChild(child.Parent, child)
	}

	child.Parent = parent
	child.Prev = parent.LastChild
	child.Next = nil

	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}

	parent.LastChild = child
}

// Append appends every child to parent in order and returns parent.
func Append(parent *Node, children ...*Node) *Node {
	for _, child := range children {
		AppendChild(parent, child)
	}
	return parent
}

// InsertBefore inserts newNode before sibling.
// sibling must have a parent.
func InsertBefore(sibling, newNode *Node) {
	if sibling == nil || newNode == nil || sibling.Parent == nil {
		return
	}

	parent := sibling.Parent

	if newNode.Parent != nil {
		RemoveChild(newNode.Parent, newNode)
	}

	newNode.Parent = parent
	newNode.Prev = sibling.Prev
	newNode.Next = sibling

	if sibling.Prev != nil {
		sibling.Prev.Next = newNode
	} else {
		parent.FirstChild = newNode
	}

	sibling.Prev = newNode
}

// RemoveChild removes a child from its parent.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}

	if child.Prev != nil {
		child.Prev.Next = child.Next
	} else {
		parent.FirstChild = child.Next
	}

	if child.Next != nil {
		child.Next.Prev = child.Prev
	} else {
		parent.LastChild = child.Prev
	}

	child.Parent = nil
	child.Prev = nil
	child.Next = nil
}

// Clone returns a deep copy of the subtree rooted at n.
// Keys are preserved so ranges computed on the copy address the original.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}

	out := &Node{
		Kind: n.Kind,
		Key:  n.Key,
		Type: n.Type,
		Data: maps.Clone(n.Data),
	}
	if n.Leaves != nil {
		out.Leaves = make([]Leaf, len(n.Leaves))
		for i, leaf := range n.Leaves {
			out.Leaves[i] = leaf.clone()
		}
	}

	for child := n.FirstChild; child != nil; child = child.Next {
		AppendChild(out, Clone(child))
	}

	return out
}
