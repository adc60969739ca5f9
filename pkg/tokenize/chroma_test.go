package tokenize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codedeco/pkg/tokenize"
)

func categories(tokens []tokenize.Token) map[string][]string {
	out := make(map[string][]string)
	for _, tok := range tokens {
		if category, ok := tok.Category(); ok {
			out[category] = append(out[category], tok.Text())
		}
	}
	return out
}

func TestChromaGrammar_Unknown(t *testing.T) {
	t.Parallel()

	_, err := tokenize.NewChromaGrammar("definitely-not-a-language")
	require.ErrorIs(t, err, tokenize.ErrUnknownGrammar)
}

func TestChromaGrammar_ReconstructsInput(t *testing.T) {
	t.Parallel()

	inputs := map[string]string{
		"js":   "// comment\nvar x = 1 + 2;\nfunction f() { return 'a' }",
		"css":  "body {\n  color: red;\n}\n",
		"html": "<div class=\"a\">hi</div>",
		"go":   "package main\r\n\r\nfunc main() {}\r\n",
	}

	for lang, input := range inputs {
		t.Run(lang, func(t *testing.T) {
			t.Parallel()

			grammar, err := tokenize.NewChromaGrammar(lang)
			require.NoError(t, err)

			tokens, err := grammar.Tokenize(input)
			require.NoError(t, err)
			require.NoError(t, tokenize.ValidateTokens(tokens, input))
		})
	}
}

func TestChromaGrammar_Categories(t *testing.T) {
	t.Parallel()

	grammar, err := tokenize.NewChromaGrammar("js")
	require.NoError(t, err)

	tokens, err := grammar.Tokenize("// note\nvar x = 1;")
	require.NoError(t, err)

	got := categories(tokens)
	assert.Contains(t, got, tokenize.CategoryComment)
	assert.Contains(t, got, tokenize.CategoryNumber)
	assert.Contains(t, got, tokenize.CategoryPunctuation)

	var keywords []string
	for _, tok := range tokens {
		if category, ok := tok.Category(); ok && category == tokenize.CategoryKeyword {
			keywords = append(keywords, tok.Text())
		}
	}
	assert.Contains(t, keywords, "var")
}

func TestChromaGrammar_Empty(t *testing.T) {
	t.Parallel()

	grammar, err := tokenize.NewChromaGrammar("css")
	require.NoError(t, err)

	tokens, err := grammar.Tokenize("")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestNewDefaultRegistry(t *testing.T) {
	t.Parallel()

	registry, missing := tokenize.NewDefaultRegistry("go", "no-such-language")
	assert.Equal(t, []string{"no-such-language"}, missing)

	for _, lang := range []string{"css", "js", "html", "go", "javascript"} {
		_, ok := registry.Resolve(lang)
		assert.True(t, ok, "expected %s to resolve", lang)
	}
}

func TestChromaLanguages(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, tokenize.ChromaLanguages())
}

func TestChromaGrammar_InvalidUTF8(t *testing.T) {
	t.Parallel()

	for _, lang := range []string{"js", "css", "html", "go", "python"} {
		t.Run(lang, func(t *testing.T) {
			t.Parallel()

			grammar, err := tokenize.NewChromaGrammar(lang)
			require.NoError(t, err)

			input := "var caf\xe9 = 1;\n\xff\xfe x"
			tokens, err := grammar.Tokenize(input)
			require.NoError(t, err)
			require.NoError(t, tokenize.ValidateTokens(tokens, input))
		})
	}
}

func TestChromaGrammar_InvalidUTF8KeepsCategories(t *testing.T) {
	t.Parallel()

	grammar, err := tokenize.NewChromaGrammar("js")
	require.NoError(t, err)

	tokens, err := grammar.Tokenize("var caf\xe9 = 1;")
	require.NoError(t, err)

	got := categories(tokens)
	assert.Contains(t, got[tokenize.CategoryKeyword], "var")
	assert.Contains(t, got[tokenize.CategoryNumber], "1")
}

func TestChromaGrammar_StalledLexersDisabled(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"jsonata", "JSONata", "jungle"} {
		_, err := tokenize.NewChromaGrammar(name)
		require.ErrorIs(t, err, tokenize.ErrUnknownGrammar, name)

		_, ok := tokenize.ChromaFallback(name)
		assert.False(t, ok, name)
	}

	for _, name := range tokenize.ChromaLanguages() {
		assert.NotEqual(t, "jsonata", strings.ToLower(name))
		assert.NotEqual(t, "jungle", strings.ToLower(name))
	}
}
