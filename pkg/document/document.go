// Package document provides the rich-text document model read by codedeco.
// It defines:
// - Document: a snapshot of a tree with its source path
// - Node: block, inline and text variants with stable keys
// - Leaf and Mark: whole-leaf styled text runs
// - traversal helpers, including the lazy text-node sequence used for flattening
package document

// Well-known block and inline types produced by the Markdown adapter.
const (
	TypeDocument  = "document"
	TypeCode      = "code"
	TypeCodeLine  = "code_line"
	TypeParagraph = "paragraph"
	TypeHeading   = "heading"
	TypeQuote     = "blockquote"
	TypeList      = "list"
	TypeListItem  = "list_item"
	TypeBreak     = "thematic_break"
	TypeHTML      = "html_block"
	TypeTable     = "table"
	TypeTableRow  = "table_row"
	TypeTableCell = "table_cell"
	TypeLink      = "link"
	TypeImage     = "image"
)

// Marks produced by the Markdown adapter.
const (
	MarkItalic        = "italic"
	MarkBold          = "bold"
	MarkCode          = "code"
	MarkStrikethrough = "strikethrough"
	MarkHTML          = "html"
)

// Well-known data keys.
const (
	DataLanguage  = "language"
	DataStartLine = "start_line"
	DataLevel     = "level"
	DataHref      = "href"
	DataTitle     = "title"
	DataInfo      = "info"
	DataOrigin    = "language_origin"
	DataOrdered   = "ordered"
	DataChecked   = "checked"
)

// Document is a snapshot of a document tree.
// Callers treat a Document as immutable once built; use Clone to obtain an
// independent copy before mutating.
type Document struct {
	// Path is the source path (may be empty for in-memory documents).
	Path string

	// Root is the document root block.
	Root *Node
}

// New creates a Document around root.
func New(path string, root *Node) *Document {
	return &Document{Path: path, Root: root}
}

// Clone returns a deep copy of the document with keys preserved.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{Path: d.Path, Root: Clone(d.Root)}
}

// Blocks returns every block of the given type in document order.
func (d *Document) Blocks(blockType string) []*Node {
	if d == nil {
		return nil
	}
	return FindAll(d.Root, func(n *Node) bool {
		return n.Kind == KindBlock && n.Type == blockType
	})
}
