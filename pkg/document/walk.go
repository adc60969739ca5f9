package document

import "iter"

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the tree starting at root.
// If walkFunc returns a non-nil error, the walk stops immediately and returns
// that error.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		return err
	}

	for child := root.FirstChild; child != nil; child = child.Next {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// Nodes returns a lazy pre-order sequence of every node under root, root included.
func Nodes(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walkSeq(root, yield)
	}
}

func walkSeq(n *Node, yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for child := n.FirstChild; child != nil; child = child.Next {
		if !walkSeq(child, yield) {
			return false
		}
	}
	return true
}

// Texts returns the text nodes under root in depth-first, left-to-right order.
// The sequence is single-pass and forward-only; iterate again by calling Texts again.
func Texts(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for n := range Nodes(root) {
			if n.Kind == KindText && !yield(n) {
				return
			}
		}
	}
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node
	for n := range Nodes(root) {
		if predicate(n) {
			result = append(result, n)
		}
	}
	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	for n := range Nodes(root) {
		if predicate(n) {
			return n
		}
	}
	return nil
}

// FindByKey returns the node with the given key, or nil.
func FindByKey(root *Node, key Key) *Node {
	return FindFirst(root, func(n *Node) bool {
		return n.Key == key
	})
}

// FindByType returns all blocks and inlines of the given type.
func FindByType(root *Node, nodeType string) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind != KindText && n.Type == nodeType
	})
}
