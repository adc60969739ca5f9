package decorate_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/yaklabco/codedeco/pkg/decorate"
	"github.com/yaklabco/codedeco/pkg/document"
	"github.com/yaklabco/codedeco/pkg/tokenize"
)

// benchBlock builds a js code block of n lines.
func benchBlock(n int) *document.Node {
	block := document.NewBlock(document.TypeCode, map[string]any{document.DataLanguage: "js"})
	for i := range n {
		line := fmt.Sprintf("var total%d = items.reduce((a, b) => a + b, %d); // step", i, i)
		document.Append(block, document.Append(document.NewBlock(document.TypeCodeLine, nil),
			document.NewText(document.NewLeaf(line))))
	}
	return block
}

// Benchmark mapping alone over pre-computed tokens.
func BenchmarkMap(b *testing.B) {
	registry, _ := tokenize.NewDefaultRegistry()
	flat := decorate.Flatten(benchBlock(200), '\n')
	tokens, err := registry.Tokenize("js", flat.Text)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for range b.N {
		if _, err := decorate.Map(flat, tokens); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark the full flatten, tokenize and map path with chroma.
func BenchmarkDecorate(b *testing.B) {
	registry, _ := tokenize.NewDefaultRegistry()
	d := decorate.New(registry)
	block := benchBlock(200)
	ctx := context.Background()

	b.ResetTimer()
	for range b.N {
		if _, err := d.Decorate(ctx, block); err != nil {
			b.Fatal(err)
		}
	}
}
