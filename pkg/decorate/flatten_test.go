package decorate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codedeco/pkg/decorate"
	"github.com/yaklabco/codedeco/pkg/document"
)

// codeBlock builds a code block with one code_line per line. Text node keys
// are "t0", "t1", ... in line order.
func codeBlock(lang string, lines ...string) *document.Node {
	block := document.NewBlock(document.TypeCode, map[string]any{document.DataLanguage: lang})
	for i, line := range lines {
		text := document.SetKey(document.NewText(document.NewLeaf(line)), textKey(i))
		document.Append(block, document.Append(document.NewBlock(document.TypeCodeLine, nil), text))
	}
	return block
}

func textKey(i int) document.Key {
	return document.Key("t" + string(rune('0'+i)))
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	flat := decorate.Flatten(codeBlock("js", "ab", "", "héllo"), '\n')

	assert.Equal(t, "ab\n\nhéllo", flat.Text)
	assert.Equal(t, '\n', flat.Sep)
	require.Len(t, flat.Leaves, 3)
	assert.Equal(t, decorate.LeafSpan{Key: "t0", Start: 0, End: 2, Len: 2}, flat.Leaves[0])
	assert.Equal(t, decorate.LeafSpan{Key: "t1", Start: 3, End: 3, Len: 0}, flat.Leaves[1])
	assert.Equal(t, decorate.LeafSpan{Key: "t2", Start: 4, End: 10, Len: 5}, flat.Leaves[2])

	assert.Equal(t, "héllo", flat.LeafText(2))
	assert.Empty(t, flat.LeafText(7))
	assert.Equal(t, 1, flat.Index("t1"))
	assert.Equal(t, -1, flat.Index("missing"))
	assert.Equal(t, 2, flat.Separators())
}

func TestFlatten_CustomSeparator(t *testing.T) {
	t.Parallel()

	flat := decorate.Flatten(codeBlock("", "ab", "cd"), '\u0000')
	assert.Equal(t, "ab\u0000cd", flat.Text)
}

func TestFlatten_Empty(t *testing.T) {
	t.Parallel()

	flat := decorate.Flatten(document.NewBlock(document.TypeCode, nil), '\n')
	assert.True(t, flat.IsEmpty())
	assert.Empty(t, flat.Text)
	assert.Zero(t, flat.Separators())

	assert.True(t, decorate.Flatten(nil, '\n').IsEmpty())
}

func TestFlatten_TextNodeJoinsItsLeaves(t *testing.T) {
	t.Parallel()

	block := document.NewBlock(document.TypeParagraph, nil)
	text := document.SetKey(document.NewText(
		document.NewLeaf("ab", "bold"),
		document.NewLeaf("cd"),
	), "t")
	document.Append(block, text)

	flat := decorate.Flatten(block, '\n')
	assert.Equal(t, "abcd", flat.Text)
	require.Len(t, flat.Leaves, 1)
	assert.Equal(t, 4, flat.Leaves[0].Len)
}

func TestFlatten_DepthFirstOrder(t *testing.T) {
	t.Parallel()

	root := document.NewDocument()
	para := document.NewBlock(document.TypeParagraph, nil)
	link := document.NewInline(document.TypeLink, map[string]any{document.DataHref: "x"})
	document.Append(link, document.SetKey(document.NewText(document.NewLeaf("2")), "b"))
	document.Append(para,
		document.SetKey(document.NewText(document.NewLeaf("1")), "a"),
		link,
		document.SetKey(document.NewText(document.NewLeaf("3")), "c"),
	)
	document.Append(root, para)

	flat := decorate.Flatten(root, '|')
	assert.Equal(t, "1|2|3", flat.Text)
	assert.Equal(t, []document.Key{"a", "b", "c"}, []document.Key{
		flat.Leaves[0].Key, flat.Leaves[1].Key, flat.Leaves[2].Key,
	})
}

func TestSegments(t *testing.T) {
	t.Parallel()

	flat := decorate.Flatten(codeBlock("", "abc", "", "de", "fgh"), '\n')

	tests := []struct {
		name     string
		r        decorate.Range
		expected []decorate.Segment
	}{
		{
			name: "single leaf",
			r:    decorate.Range{Anchor: decorate.Point{Key: "t0", Offset: 1}, Focus: decorate.Point{Key: "t0", Offset: 3}},
			expected: []decorate.Segment{
				{Key: "t0", Start: 1, End: 3},
			},
		},
		{
			name: "spans empty and whole leaves",
			r:    decorate.Range{Anchor: decorate.Point{Key: "t0", Offset: 2}, Focus: decorate.Point{Key: "t3", Offset: 1}},
			expected: []decorate.Segment{
				{Key: "t0", Start: 2, End: 3},
				{Key: "t2", Start: 0, End: 2},
				{Key: "t3", Start: 0, End: 1},
			},
		},
		{
			name:     "unknown key",
			r:        decorate.Range{Anchor: decorate.Point{Key: "zz"}, Focus: decorate.Point{Key: "t0", Offset: 1}},
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, flat.Segments(tc.r))
		})
	}
}
