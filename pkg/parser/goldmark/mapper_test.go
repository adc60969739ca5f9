package goldmark

import (
	"testing"

	"github.com/yaklabco/codedeco/pkg/document"
)

func leafSummary(n *document.Node) []string {
	var out []string
	for text := range document.Texts(n) {
		for _, leaf := range text.Leaves {
			s := leaf.Text
			for _, m := range leaf.Marks {
				s += "|" + m.Type
			}
			out = append(out, s)
		}
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuilder_Heading(t *testing.T) {
	doc := parse(t, New(FlavorCommonMark), "## Hello *there*")

	headings := doc.Blocks(document.TypeHeading)
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(headings))
	}
	if got := headings[0].DataInt(document.DataLevel); got != 2 {
		t.Errorf("level = %d, want 2", got)
	}
	if got := leafSummary(headings[0]); !equalStrings(got, []string{"Hello ", "there|italic"}) {
		t.Errorf("leaves = %q", got)
	}
}

func TestBuilder_InlineMarks(t *testing.T) {
	doc := parse(t, New(FlavorCommonMark), "a *b* **c** `d` ***e***")

	para := doc.Blocks(document.TypeParagraph)[0]
	if para.ChildCount() != 1 {
		t.Fatalf("expected one text node, got %d children", para.ChildCount())
	}

	want := []string{"a ", "b|italic", " ", "c|bold", " ", "d|code", " ", "e|italic|bold"}
	if got := leafSummary(para); !equalStrings(got, want) {
		t.Errorf("leaves = %q, want %q", got, want)
	}
}

func TestBuilder_SoftBreakKeepsNewline(t *testing.T) {
	doc := parse(t, New(FlavorCommonMark), "one\ntwo")

	if got := doc.Blocks(document.TypeParagraph)[0].Text(); got != "one\ntwo" {
		t.Errorf("text = %q", got)
	}
}

func TestBuilder_Link(t *testing.T) {
	doc := parse(t, New(FlavorCommonMark), `see [the **docs**](https://example.com "Docs") now`)

	para := doc.Blocks(document.TypeParagraph)[0]
	children := para.Children()
	if len(children) != 3 {
		t.Fatalf("expected text, link, text; got %d children", len(children))
	}

	link := children[1]
	if !link.IsInline() || link.Type != document.TypeLink {
		t.Fatalf("middle child = %v %q, want inline link", link.Kind, link.Type)
	}
	if got := link.DataString(document.DataHref); got != "https://example.com" {
		t.Errorf("href = %q", got)
	}
	if got := link.DataString(document.DataTitle); got != "Docs" {
		t.Errorf("title = %q", got)
	}
	if got := leafSummary(link); !equalStrings(got, []string{"the ", "docs|bold"}) {
		t.Errorf("link leaves = %q", got)
	}
	if children[0].Text() != "see " || children[2].Text() != " now" {
		t.Errorf("surrounding text = %q, %q", children[0].Text(), children[2].Text())
	}
}

func TestBuilder_AutoLinkAndImage(t *testing.T) {
	doc := parse(t, New(FlavorCommonMark), "<https://a.example> ![alt](img.png)")

	links := document.FindByType(doc.Root, document.TypeLink)
	if len(links) != 1 || links[0].DataString(document.DataHref) != "https://a.example" {
		t.Fatalf("autolink not mapped: %v", links)
	}
	if links[0].Text() != "https://a.example" {
		t.Errorf("autolink text = %q", links[0].Text())
	}

	images := document.FindByType(doc.Root, document.TypeImage)
	if len(images) != 1 || images[0].DataString(document.DataHref) != "img.png" {
		t.Fatalf("image not mapped: %v", images)
	}
	if images[0].Text() != "alt" {
		t.Errorf("image text = %q", images[0].Text())
	}
}

func TestBuilder_ListsAndQuotes(t *testing.T) {
	doc := parse(t, New(FlavorCommonMark), "1. one\n2. two\n\n> quoted\n")

	lists := doc.Blocks(document.TypeList)
	if len(lists) != 1 {
		t.Fatalf("expected 1 list, got %d", len(lists))
	}
	if ordered, _ := lists[0].Data[document.DataOrdered].(bool); !ordered {
		t.Error("expected ordered list")
	}
	if n := len(doc.Blocks(document.TypeListItem)); n != 2 {
		t.Errorf("list items = %d, want 2", n)
	}

	quotes := doc.Blocks(document.TypeQuote)
	if len(quotes) != 1 || quotes[0].Text() != "quoted" {
		t.Errorf("quote not mapped")
	}
}

func TestBuilder_EmptyBlocksHoldText(t *testing.T) {
	doc := parse(t, New(FlavorCommonMark), "a\n\n---\n")

	breaks := doc.Blocks(document.TypeBreak)
	if len(breaks) != 1 {
		t.Fatalf("expected 1 thematic break, got %d", len(breaks))
	}
	if breaks[0].ChildCount() != 1 || !breaks[0].FirstChild.IsText() {
		t.Error("thematic break should hold one empty text node")
	}
}

func TestBuilder_GFM(t *testing.T) {
	content := "~~gone~~\n\n- [x] done\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
	doc := parse(t, New(FlavorGFM), content)

	if got := leafSummary(doc.Blocks(document.TypeParagraph)[0]); !equalStrings(got, []string{"gone|strikethrough"}) {
		t.Errorf("strikethrough leaves = %q", got)
	}

	var checked bool
	for _, p := range doc.Blocks(document.TypeParagraph) {
		if v, ok := p.Data[document.DataChecked].(bool); ok {
			checked = v
		}
	}
	if !checked {
		t.Error("expected a checked task item")
	}

	if n := len(doc.Blocks(document.TypeTable)); n != 1 {
		t.Errorf("tables = %d, want 1", n)
	}
	if n := len(doc.Blocks(document.TypeTableRow)); n != 2 {
		t.Errorf("table rows = %d, want 2", n)
	}
	if n := len(doc.Blocks(document.TypeTableCell)); n != 4 {
		t.Errorf("table cells = %d, want 4", n)
	}
}

func TestBuilder_ParentChildRelationships(t *testing.T) {
	doc := parse(t, New(FlavorCommonMark), "# A\n\n- b\n\n```\nc\n```\n")

	err := document.Walk(doc.Root, func(n *document.Node) error {
		for child := n.FirstChild; child != nil; child = child.Next {
			if child.Parent != n {
				t.Errorf("child %s has wrong parent", child.Key)
			}
		}
		if n.IsText() && n.HasChildren() {
			t.Errorf("text node %s has children", n.Key)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}
}

func TestLineIndex(t *testing.T) {
	idx := newLineIndex([]byte("ab\ncd\n\ne"))

	tests := map[int]int{-1: 0, 0: 1, 2: 1, 3: 2, 6: 3, 7: 4, 100: 4}
	for offset, want := range tests {
		if got := idx.lineAt(offset); got != want {
			t.Errorf("lineAt(%d) = %d, want %d", offset, got, want)
		}
	}
}
