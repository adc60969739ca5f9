package document_test

import (
	"errors"
	"testing"

	"github.com/yaklabco/codedeco/pkg/document"
)

func buildTestTree() *document.Node {
	// Build a simple tree:
	// document
	//   code
	//     code_line
	//       text "a"
	//     code_line
	//       text "b"
	//   paragraph
	//     text "c"
	//     link
	//       text "d"

	doc := document.SetKey(document.NewDocument(), "doc")

	code := document.SetKey(document.NewBlock(document.TypeCode, map[string]any{"language": "js"}), "code")
	for _, line := range []string{"a", "b"} {
		codeLine := document.SetKey(document.NewBlock(document.TypeCodeLine, nil), document.Key("line-"+line))
		document.AppendChild(codeLine, document.SetKey(document.NewText(document.NewLeaf(line)), document.Key("t-"+line)))
		document.AppendChild(code, codeLine)
	}
	document.AppendChild(doc, code)

	para := document.SetKey(document.NewBlock(document.TypeParagraph, nil), "para")
	document.AppendChild(para, document.SetKey(document.NewText(document.NewLeaf("c")), "t-c"))
	link := document.SetKey(document.NewInline(document.TypeLink, map[string]any{"href": "x"}), "link")
	document.AppendChild(link, document.SetKey(document.NewText(document.NewLeaf("d", "bold")), "t-d"))
	document.AppendChild(para, link)
	document.AppendChild(doc, para)

	return doc
}

func TestWalk(t *testing.T) {
	t.Parallel()

	doc := buildTestTree()

	var visited []document.Key
	err := document.Walk(doc, func(n *document.Node) error {
		visited = append(visited, n.Key)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}

	expected := []document.Key{
		"doc", "code", "line-a", "t-a", "line-b", "t-b", "para", "t-c", "link", "t-d",
	}

	if len(visited) != len(expected) {
		t.Fatalf("expected %d nodes, got %d", len(expected), len(visited))
	}

	for i, key := range expected {
		if visited[i] != key {
			t.Errorf("node %d: expected %s, got %s", i, key, visited[i])
		}
	}
}

func TestWalk_NilRoot(t *testing.T) {
	t.Parallel()

	err := document.Walk(nil, func(_ *document.Node) error {
		t.Error("callback should not be called for nil root")
		return nil
	})
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	t.Parallel()

	doc := buildTestTree()
	stop := errors.New("stop")

	count := 0
	err := document.Walk(doc, func(_ *document.Node) error {
		count++
		if count == 3 {
			return stop
		}
		return nil
	})

	if !errors.Is(err, stop) {
		t.Errorf("expected stop error, got %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 visits, got %d", count)
	}
}

func TestTexts_Order(t *testing.T) {
	t.Parallel()

	doc := buildTestTree()

	var keys []document.Key
	for text := range document.Texts(doc) {
		keys = append(keys, text.Key)
	}

	expected := []document.Key{"t-a", "t-b", "t-c", "t-d"}
	if len(keys) != len(expected) {
		t.Fatalf("expected %d text nodes, got %d", len(expected), len(keys))
	}
	for i := range expected {
		if keys[i] != expected[i] {
			t.Errorf("text %d: expected %s, got %s", i, expected[i], keys[i])
		}
	}
}

func TestTexts_Subtree(t *testing.T) {
	t.Parallel()

	doc := buildTestTree()
	code := document.FindByKey(doc, "code")

	count := 0
	for range document.Texts(code) {
		count++
	}
	if count != 2 {
		t.Errorf("expected 2 text nodes under code, got %d", count)
	}
}

func TestTexts_EarlyBreak(t *testing.T) {
	t.Parallel()

	doc := buildTestTree()

	count := 0
	for range document.Texts(doc) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("expected 1 iteration, got %d", count)
	}
}

func TestFindByType(t *testing.T) {
	t.Parallel()

	doc := buildTestTree()

	lines := document.FindByType(doc, document.TypeCodeLine)
	if len(lines) != 2 {
		t.Fatalf("expected 2 code lines, got %d", len(lines))
	}
	if lines[0].Key != "line-a" || lines[1].Key != "line-b" {
		t.Errorf("unexpected order: %s, %s", lines[0].Key, lines[1].Key)
	}
}

func TestFindByKey_Missing(t *testing.T) {
	t.Parallel()

	if got := document.FindByKey(buildTestTree(), "nope"); got != nil {
		t.Errorf("expected nil, got %v", got.Key)
	}
}

func TestNode_Text(t *testing.T) {
	t.Parallel()

	doc := buildTestTree()

	if got := doc.Text(); got != "abcd" {
		t.Errorf("expected %q, got %q", "abcd", got)
	}

	multi := document.NewText(document.NewLeaf("foo"), document.NewLeaf("bar", "bold"))
	if got := multi.Text(); got != "foobar" {
		t.Errorf("expected %q, got %q", "foobar", got)
	}
}
