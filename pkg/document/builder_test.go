package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codedeco/pkg/document"
)

func TestNewNode_UniqueKeys(t *testing.T) {
	t.Parallel()

	seen := make(map[document.Key]bool)
	for range 100 {
		node := document.NewNode(document.KindText)
		require.False(t, node.Key.IsZero())
		require.False(t, seen[node.Key], "duplicate key %s", node.Key)
		seen[node.Key] = true
	}
}

func TestNewBlock_CopiesData(t *testing.T) {
	t.Parallel()

	data := map[string]any{document.DataLanguage: "css"}
	block := document.NewBlock(document.TypeCode, data)
	data[document.DataLanguage] = "js"

	assert.Equal(t, "css", block.DataString(document.DataLanguage))
	assert.Equal(t, document.KindBlock, block.Kind)
	assert.True(t, block.IsBlock())
}

func TestDataAccessors(t *testing.T) {
	t.Parallel()

	block := document.NewBlock(document.TypeCode, nil)
	assert.Empty(t, block.DataString(document.DataLanguage))
	assert.Zero(t, block.DataInt(document.DataStartLine))

	document.SetData(block, document.DataLanguage, "go")
	document.SetData(block, document.DataStartLine, 7)
	document.SetData(block, "count", int64(3))
	document.SetData(block, "wrong", 42)

	assert.Equal(t, "go", block.DataString(document.DataLanguage))
	assert.Equal(t, 7, block.DataInt(document.DataStartLine))
	assert.Equal(t, 3, block.DataInt("count"))
	assert.Empty(t, block.DataString("wrong"))
}

func TestSetData_IgnoresText(t *testing.T) {
	t.Parallel()

	text := document.NewText(document.NewLeaf("x"))
	document.SetData(text, "k", "v")
	assert.Nil(t, text.Data)
}

func TestAppendChild(t *testing.T) {
	t.Parallel()

	parent := document.NewDocument()
	child1 := document.NewBlock(document.TypeParagraph, nil)
	child2 := document.NewBlock(document.TypeCode, nil)

	document.AppendChild(parent, child1)
	assert.Same(t, child1, parent.FirstChild)
	assert.Same(t, child1, parent.LastChild)
	assert.Same(t, parent, child1.Parent)

	document.AppendChild(parent, child2)
	assert.Same(t, child1, parent.FirstChild)
	assert.Same(t, child2, parent.LastChild)
	assert.Same(t, child2, child1.Next)
	assert.Same(t, child1, child2.Prev)
	assert.Equal(t, 2, parent.ChildCount())
}

func TestAppendChild_TextCannotOwnChildren(t *testing.T) {
	t.Parallel()

	text := document.NewText(document.NewLeaf("x"))
	document.AppendChild(text, document.NewText(document.NewLeaf("y")))
	assert.False(t, text.HasChildren())
}

func TestAppendChild_Reparents(t *testing.T) {
	t.Parallel()

	a := document.NewBlock("a", nil)
	b := document.NewBlock("b", nil)
	child := document.NewText(document.NewLeaf("x"))

	document.AppendChild(a, child)
	document.AppendChild(b, child)

	assert.False(t, a.HasChildren())
	assert.Same(t, b, child.Parent)
}

func TestInsertBefore(t *testing.T) {
	t.Parallel()

	parent := document.NewDocument()
	first := document.NewBlock("first", nil)
	second := document.NewBlock("second", nil)
	document.AppendChild(parent, second)
	document.InsertBefore(second, first)

	children := parent.Children()
	require.Len(t, children, 2)
	assert.Same(t, first, children[0])
	assert.Same(t, second, children[1])
}

func TestRemoveChild(t *testing.T) {
	t.Parallel()

	parent := document.NewDocument()
	a := document.NewBlock("a", nil)
	b := document.NewBlock("b", nil)
	c := document.NewBlock("c", nil)
	document.Append(parent, a, b, c)

	document.RemoveChild(parent, b)

	assert.Equal(t, 2, parent.ChildCount())
	assert.Same(t, c, a.Next)
	assert.Same(t, a, c.Prev)
	assert.Nil(t, b.Parent)
}

func TestClone_Independent(t *testing.T) {
	t.Parallel()

	doc := document.New("x.md", buildTestTree())
	clone := doc.Clone()

	require.Equal(t, doc.Root.Text(), clone.Root.Text())

	original := document.FindByKey(doc.Root, "t-a")
	copied := document.FindByKey(clone.Root, "t-a")
	require.NotNil(t, copied)
	require.NotSame(t, original, copied)

	copied.Leaves[0] = document.NewLeaf("changed")
	document.SetData(document.FindByKey(clone.Root, "code"), document.DataLanguage, "css")

	assert.Equal(t, "a", original.Leaves[0].Text)
	assert.Equal(t, "js", document.FindByKey(doc.Root, "code").DataString(document.DataLanguage))
}

func TestDocument_Blocks(t *testing.T) {
	t.Parallel()

	doc := document.New("", buildTestTree())

	blocks := doc.Blocks(document.TypeCode)
	require.Len(t, blocks, 1)
	assert.Equal(t, document.Key("code"), blocks[0].Key)

	var nilDoc *document.Document
	assert.Nil(t, nilDoc.Blocks(document.TypeCode))
}

func TestLeaf_HasMark(t *testing.T) {
	t.Parallel()

	leaf := document.NewLeaf("x", "bold", "code")
	assert.True(t, leaf.HasMark("bold"))
	assert.True(t, leaf.HasMark("code"))
	assert.False(t, leaf.HasMark("italic"))
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "block", document.KindBlock.String())
	assert.Equal(t, "inline", document.KindInline.String())
	assert.Equal(t, "text", document.KindText.String())
	assert.Equal(t, "unknown", document.Kind(99).String())
}
