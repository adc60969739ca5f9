package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codedeco/pkg/config"
	"github.com/yaklabco/codedeco/pkg/decorate"
	"github.com/yaklabco/codedeco/pkg/runner"
	"github.com/yaklabco/codedeco/pkg/tokenize"
)

const kvDoc = "# Notes\n\n```kv\nlet x\nlet y\n```\n\n```nosuchlang\nlet z\n```\n\n```\nlet w\n```\n"

func kvConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Grammars["kv"] = []config.GrammarRule{{Category: "keyword", Pattern: `\blet\b`}}
	cfg.Aliases["keyvalue"] = "kv"
	return cfg
}

func newKVPipeline(t *testing.T) *runner.Pipeline {
	t.Helper()

	pipeline, _, err := runner.NewPipelineFromConfig(kvConfig(), nil)
	require.NoError(t, err)
	return pipeline
}

func TestPipeline_ProcessContent(t *testing.T) {
	t.Parallel()

	result, err := newKVPipeline(t).ProcessContent(context.Background(), "notes.md", []byte(kvDoc))
	require.NoError(t, err)

	require.Len(t, result.Blocks, 3)
	assert.Equal(t, "notes.md", result.Path)
	assert.NotNil(t, result.Document)
	assert.Nil(t, result.Info)

	kv := result.Blocks[0]
	assert.Equal(t, "kv", kv.Language)
	require.Len(t, kv.Ranges, 2)
	for _, rng := range kv.Ranges {
		assert.True(t, rng.HasLabel("keyword"))
		assert.Equal(t, 0, rng.Anchor.Offset)
		assert.Equal(t, 3, rng.Focus.Offset)
		assert.Equal(t, rng.Anchor.Key, rng.Focus.Key)
	}
	assert.NotEqual(t, kv.Ranges[0].Anchor.Key, kv.Ranges[1].Anchor.Key)

	unknown := result.Blocks[1]
	assert.Equal(t, "nosuchlang", unknown.Language)
	assert.Empty(t, unknown.Ranges)
	require.NoError(t, unknown.Err)

	plain := result.Blocks[2]
	assert.Empty(t, plain.Language)
	assert.Empty(t, plain.Ranges)

	assert.Equal(t, 2, result.RangeCount())
	assert.Equal(t, 0, result.FailedBlocks())
}

func TestPipeline_Aliases(t *testing.T) {
	t.Parallel()

	content := []byte("```keyvalue\nlet a\n```\n")
	result, err := newKVPipeline(t).ProcessContent(context.Background(), "", content)
	require.NoError(t, err)

	require.Len(t, result.Blocks, 1)
	assert.Len(t, result.Blocks[0].Ranges, 1)
}

func TestPipeline_ChromaFallback(t *testing.T) {
	t.Parallel()

	pipeline, _, err := runner.NewPipelineFromConfig(config.NewConfig(), nil)
	require.NoError(t, err)

	content := []byte("```go\npackage main\n```\n")
	result, err := pipeline.ProcessContent(context.Background(), "main.md", content)
	require.NoError(t, err)

	require.Len(t, result.Blocks, 1)
	require.NoError(t, result.Blocks[0].Err)
	assert.NotEmpty(t, result.Blocks[0].Ranges, "go resolves through chroma on first use")
}

func TestPipeline_ProcessFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte(kvDoc), 0o600))

	pipeline := newKVPipeline(t)

	result, err := pipeline.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, result.Info)
	assert.Equal(t, 2, result.RangeCount())

	_, err = pipeline.ProcessFile(context.Background(), filepath.Join(dir, "missing.md"))
	require.ErrorIs(t, err, runner.ErrFileNotFound)
	assert.True(t, runner.IsPipelineError(err))
}

func TestPipeline_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newKVPipeline(t).ProcessContent(ctx, "notes.md", []byte(kvDoc))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	cfg := kvConfig()
	cfg.DefaultLanguage = "nosuchlang"

	registry, missing, err := runner.NewRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"nosuchlang"}, missing)

	tokens, err := registry.Tokenize("keyvalue", "let q")
	require.NoError(t, err)
	require.NotEmpty(t, tokens)
	assert.Equal(t, "let", tokens[0].Text())

	cfg.Grammars["bad"] = []config.GrammarRule{{Category: "x", Pattern: "("}}
	_, _, err = runner.NewRegistry(cfg)
	require.Error(t, err)
}

func TestNewPipelineFromConfig_Warnings(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.DefaultLanguage = "nosuchlang"

	_, warnings, err := runner.NewPipelineFromConfig(cfg, nil)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "nosuchlang")

	cfg.Separator = "ab"
	_, _, err = runner.NewPipelineFromConfig(cfg, nil)
	require.ErrorIs(t, err, config.ErrInvalidSeparator)
}

type truncatingTokenizer struct{}

// Tokenize returns a stream one character short of text.
func (truncatingTokenizer) Tokenize(_, text string) ([]tokenize.Token, error) {
	return []tokenize.Token{tokenize.Typed("keyword", text[:len(text)-1])}, nil
}

func TestPipeline_BlockErrorStaysOnBlock(t *testing.T) {
	t.Parallel()

	pipeline := runner.NewPipeline(newKVPipeline(t).Parser, decorate.New(truncatingTokenizer{}))

	content := []byte("```kv\nlet a\n```\n\n```kv\nlet b\n```\n")
	result, err := pipeline.ProcessContent(context.Background(), "notes.md", content)
	require.NoError(t, err, "block failures are not file failures")

	require.Len(t, result.Blocks, 2)
	for _, block := range result.Blocks {
		require.ErrorIs(t, block.Err, decorate.ErrInconsistent)
		assert.Empty(t, block.Ranges)
	}
	assert.Equal(t, 2, result.FailedBlocks())
}
