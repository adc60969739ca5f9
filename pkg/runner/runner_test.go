package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codedeco/pkg/decorate"
	"github.com/yaklabco/codedeco/pkg/runner"
)

func writeDocs(t *testing.T, docs map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for rel, content := range docs {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	dir := writeDocs(t, map[string]string{
		"a.md":       kvDoc,
		"b/c.md":     "```kv\nlet only\n```\n",
		"b/d.md":     "plain text\n",
		"ignored.go": "package x\n",
	})

	result, err := runner.New(newKVPipeline(t)).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Jobs:       2,
	})
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, filepath.Join(dir, "a.md"), result.Files[0].Path)
	assert.Equal(t, filepath.Join(dir, "b", "c.md"), result.Files[1].Path)
	assert.Equal(t, filepath.Join(dir, "b", "d.md"), result.Files[2].Path)

	stats := result.Stats
	assert.Equal(t, 3, stats.FilesDiscovered)
	assert.Equal(t, 3, stats.FilesProcessed)
	assert.Zero(t, stats.FilesErrored)
	assert.Equal(t, 4, stats.BlocksTotal)
	assert.Equal(t, 2, stats.BlocksDecorated)
	assert.Equal(t, 3, stats.RangesTotal)
	assert.Equal(t, 3, stats.RangesByCategory["keyword"])
	assert.Equal(t, 2, stats.BlocksByLanguage["kv"])
	assert.Equal(t, 1, stats.BlocksByLanguage[""])

	assert.True(t, result.HasRanges())
	assert.False(t, result.HasFailures())
}

func TestRunner_RunFiles_MissingFile(t *testing.T) {
	t.Parallel()

	dir := writeDocs(t, map[string]string{"a.md": kvDoc})
	files := []string{filepath.Join(dir, "gone.md"), filepath.Join(dir, "a.md")}

	result, err := runner.New(newKVPipeline(t)).RunFiles(context.Background(), files, 0)
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.Equal(t, files[0], result.Files[0].Path, "outcomes keep input order")
	require.ErrorIs(t, result.Files[0].Error, runner.ErrFileNotFound)
	assert.Nil(t, result.Files[0].Result)

	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.Equal(t, 1, result.Stats.FilesProcessed)
	assert.True(t, result.HasFailures())
}

func TestRunner_RunFiles_Empty(t *testing.T) {
	t.Parallel()

	result, err := runner.New(newKVPipeline(t)).RunFiles(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasRanges())
}

func TestRunner_Cancelled(t *testing.T) {
	t.Parallel()

	dir := writeDocs(t, map[string]string{"a.md": kvDoc, "b.md": kvDoc})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []string{filepath.Join(dir, "a.md"), filepath.Join(dir, "b.md")}
	_, err := runner.New(newKVPipeline(t)).RunFiles(ctx, files, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewResult_CountsFailedBlocks(t *testing.T) {
	t.Parallel()

	fr := &runner.FileResult{
		Path: "x.md",
		Blocks: []decorate.BlockDecorations{
			{Language: "kv", Err: errors.New("boom")},
			{Language: "kv", Ranges: []decorate.Range{{Labels: []string{"keyword", "strong"}}}},
		},
	}

	result := runner.NewResult(runner.FileOutcome{Path: "x.md", Result: fr})

	assert.Equal(t, 1, fr.FailedBlocks())
	assert.Equal(t, 1, result.Stats.BlocksFailed)
	assert.Equal(t, 1, result.Stats.FilesWithFailures)
	assert.Equal(t, 1, result.Stats.RangesTotal)
	assert.Equal(t, 1, result.Stats.RangesByCategory["strong"])
	assert.True(t, result.HasFailures())

	var nilResult *runner.Result
	assert.False(t, nilResult.HasFailures())
	assert.False(t, nilResult.HasRanges())
}
