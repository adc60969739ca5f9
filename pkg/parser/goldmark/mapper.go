package goldmark

import (
	"bytes"
	"slices"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/codedeco/pkg/document"
)

// builder converts a goldmark AST into a document tree.
type builder struct {
	source []byte
	lines  lineIndex
	parser *Parser
}

func newBuilder(source []byte, p *Parser) *builder {
	return &builder{source: source, lines: newLineIndex(source), parser: p}
}

// buildDocument converts a goldmark document node to a document root.
func (b *builder) buildDocument(gmDoc ast.Node) *document.Node {
	root := document.NewDocument()
	b.buildBlocks(gmDoc, root)
	ensureText(root)
	return root
}

// buildBlocks maps the block children of gmParent onto parent.
func (b *builder) buildBlocks(gmParent ast.Node, parent *document.Node) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		if node := b.buildBlock(child); node != nil {
			document.AppendChild(parent, node)
		}
	}
}

// buildBlock converts a single goldmark block node.
func (b *builder) buildBlock(gmNode ast.Node) *document.Node {
	var node *document.Node

	switch gmn := gmNode.(type) {
	case *ast.Heading:
		node = document.NewBlock(document.TypeHeading, map[string]any{document.DataLevel: gmn.Level})
		b.buildInlines(gmn, node)

	case *ast.Paragraph, *ast.TextBlock:
		node = document.NewBlock(document.TypeParagraph, nil)
		b.buildInlines(gmn, node)

	case *ast.List:
		node = document.NewBlock(document.TypeList, map[string]any{document.DataOrdered: gmn.IsOrdered()})
		b.buildBlocks(gmn, node)

	case *ast.ListItem:
		node = document.NewBlock(document.TypeListItem, nil)
		b.buildBlocks(gmn, node)

	case *ast.Blockquote:
		node = document.NewBlock(document.TypeQuote, nil)
		b.buildBlocks(gmn, node)

	case *ast.FencedCodeBlock:
		node = b.buildFencedCode(gmn)

	case *ast.CodeBlock:
		node = b.buildCode(gmn, "", "")

	case *ast.HTMLBlock:
		var closure *text.Segment
		if gmn.HasClosure() {
			closure = &gmn.ClosureLine
		}
		node = b.buildLines(document.TypeHTML, gmn.Lines(), closure)
		document.SetData(node, document.DataLanguage, "html")

	case *ast.ThematicBreak:
		node = document.NewBlock(document.TypeBreak, nil)

	case *east.Table:
		node = document.NewBlock(document.TypeTable, nil)
		b.buildBlocks(gmn, node)

	case *east.TableHeader, *east.TableRow:
		node = document.NewBlock(document.TypeTableRow, nil)
		b.buildBlocks(gmn, node)

	case *east.TableCell:
		node = document.NewBlock(document.TypeTableCell, nil)
		b.buildInlines(gmn, node)

	default:
		if gmNode.Type() == ast.TypeInline {
			node = document.NewBlock(document.TypeParagraph, nil)
			b.buildInlines(gmNode, node)
		} else {
			node = document.NewBlock(gmNode.Kind().String(), nil)
			b.buildBlocks(gmNode, node)
		}
	}

	ensureText(node)
	return node
}

// buildFencedCode converts a fenced code block, resolving its language.
func (b *builder) buildFencedCode(codeBlock *ast.FencedCodeBlock) *document.Node {
	info := ""
	word := ""
	if codeBlock.Info != nil {
		info = strings.TrimSpace(string(codeBlock.Info.Segment.Value(b.source)))
		word = string(codeBlock.Language(b.source))
	}

	node := b.buildCode(codeBlock, info, word)

	// An empty block has no content lines; its first line follows the fence.
	if node.DataInt(document.DataStartLine) == 0 && codeBlock.Info != nil {
		document.SetData(node, document.DataStartLine, b.lines.lineAt(codeBlock.Info.Segment.Start)+1)
	}
	return node
}

// buildCode builds a code block with one code_line per source line.
func (b *builder) buildCode(gmNode ast.Node, info, word string) *document.Node {
	node := b.buildLines(document.TypeCode, gmNode.Lines(), nil)

	code := []byte(node.Text())
	lang, origin := b.parser.resolveLanguage(word, code)
	if info != "" {
		document.SetData(node, document.DataInfo, info)
	}
	if lang != "" {
		document.SetData(node, document.DataLanguage, lang)
		document.SetData(node, document.DataOrigin, origin)
	}
	return node
}

// buildLines builds a block of the given type holding one code_line per
// segment, trailing line endings removed.
func (b *builder) buildLines(blockType string, lines *text.Segments, closure *text.Segment) *document.Node {
	node := document.NewBlock(blockType, nil)

	for i := range lines.Len() {
		seg := lines.At(i)
		if i == 0 {
			document.SetData(node, document.DataStartLine, b.lines.lineAt(seg.Start))
		}
		value := bytes.TrimRight(seg.Value(b.source), "\r\n")
		line := document.NewBlock(document.TypeCodeLine, nil)
		document.Append(line, document.NewText(document.NewLeaf(string(value))))
		document.AppendChild(node, line)
	}

	if closure != nil && closure.Len() > 0 {
		value := bytes.TrimRight(closure.Value(b.source), "\r\n")
		line := document.NewBlock(document.TypeCodeLine, nil)
		document.Append(line, document.NewText(document.NewLeaf(string(value))))
		document.AppendChild(node, line)
	}

	if !node.HasChildren() {
		line := document.NewBlock(document.TypeCodeLine, nil)
		document.Append(line, document.NewText(document.NewLeaf("")))
		document.AppendChild(node, line)
	}
	return node
}

// buildInlines maps the inline content of gmParent into text and inline
// nodes under parent.
func (b *builder) buildInlines(gmParent ast.Node, parent *document.Node) {
	run := &inlineRun{parent: parent}
	b.walkInlines(gmParent, parent, run, nil)
	run.flush()
}

// inlineRun collects consecutive leaves into one text node.
type inlineRun struct {
	parent *document.Node
	leaves []document.Leaf
}

func (r *inlineRun) add(s string, marks []string) {
	if s == "" {
		return
	}
	if n := len(r.leaves); n > 0 && slices.Equal(markTypes(r.leaves[n-1]), marks) {
		r.leaves[n-1].Text += s
		return
	}
	r.leaves = append(r.leaves, document.NewLeaf(s, marks...))
}

func (r *inlineRun) flush() {
	if len(r.leaves) == 0 {
		return
	}
	document.AppendChild(r.parent, document.NewText(r.leaves...))
	r.leaves = nil
}

func (b *builder) walkInlines(gmParent ast.Node, block *document.Node, run *inlineRun, marks []string) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		switch gmn := child.(type) {
		case *ast.Text:
			run.add(string(gmn.Segment.Value(b.source)), marks)
			if gmn.SoftLineBreak() || gmn.HardLineBreak() {
				run.add("\n", marks)
			}

		case *ast.String:
			run.add(string(gmn.Value), marks)

		case *ast.CodeSpan:
			run.add(b.plainText(gmn), withMark(marks, document.MarkCode))

		case *ast.Emphasis:
			mark := document.MarkItalic
			if gmn.Level == 2 {
				mark = document.MarkBold
			}
			b.walkInlines(gmn, block, run, withMark(marks, mark))

		case *east.Strikethrough:
			b.walkInlines(gmn, block, run, withMark(marks, document.MarkStrikethrough))

		case *ast.RawHTML:
			var sb strings.Builder
			for i := range gmn.Segments.Len() {
				seg := gmn.Segments.At(i)
				sb.Write(seg.Value(b.source))
			}
			run.add(sb.String(), withMark(marks, document.MarkHTML))

		case *east.TaskCheckBox:
			document.SetData(block, document.DataChecked, gmn.IsChecked)

		case *ast.Link:
			b.buildInlineContainer(run, document.TypeLink, string(gmn.Destination), string(gmn.Title), gmn, marks)

		case *ast.Image:
			b.buildInlineContainer(run, document.TypeImage, string(gmn.Destination), string(gmn.Title), gmn, marks)

		case *ast.AutoLink:
			run.flush()
			link := document.NewInline(document.TypeLink, map[string]any{
				document.DataHref: string(gmn.URL(b.source)),
			})
			document.Append(link, document.NewText(document.NewLeaf(string(gmn.Label(b.source)), marks...)))
			document.AppendChild(run.parent, link)

		default:
			b.walkInlines(child, block, run, marks)
		}
	}
}

// buildInlineContainer ends the current run and appends an inline node whose
// content is built from gmNode's children.
func (b *builder) buildInlineContainer(
	run *inlineRun, inlineType, href, title string, gmNode ast.Node, marks []string,
) {
	run.flush()

	data := map[string]any{document.DataHref: href}
	if title != "" {
		data[document.DataTitle] = title
	}
	inline := document.NewInline(inlineType, data)

	inner := &inlineRun{parent: inline}
	b.walkInlines(gmNode, run.parent, inner, marks)
	inner.flush()
	ensureText(inline)

	document.AppendChild(run.parent, inline)
}

// plainText concatenates the text children of an inline node.
func (b *builder) plainText(gmNode ast.Node) string {
	var sb strings.Builder
	for child := gmNode.FirstChild(); child != nil; child = child.NextSibling() {
		switch gmn := child.(type) {
		case *ast.Text:
			sb.Write(gmn.Segment.Value(b.source))
		case *ast.String:
			sb.Write(gmn.Value)
		}
	}
	return sb.String()
}

// ensureText gives an element without children a single empty text node, so
// every element can hold a selection.
func ensureText(n *document.Node) {
	if n != nil && !n.IsText() && !n.HasChildren() {
		document.AppendChild(n, document.NewText(document.NewLeaf("")))
	}
}

func withMark(marks []string, mark string) []string {
	if slices.Contains(marks, mark) {
		return marks
	}
	out := make([]string, 0, len(marks)+1)
	out = append(out, marks...)
	return append(out, mark)
}

func markTypes(leaf document.Leaf) []string {
	types := make([]string, 0, len(leaf.Marks))
	for _, m := range leaf.Marks {
		types = append(types, m.Type)
	}
	return types
}
