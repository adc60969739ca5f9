package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codedeco/internal/watcher"
)

const debounce = 50 * time.Millisecond

func startWatcher(t *testing.T, paths ...string) <-chan []string {
	t.Helper()

	cfg := watcher.DefaultConfig(paths...)
	cfg.DebounceDur = debounce

	w, err := watcher.New(cfg)
	require.NoError(t, err, "failed to create watcher")
	t.Cleanup(func() { _ = w.Stop() })

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")
	return onChange
}

func waitBatch(t *testing.T, onChange <-chan []string) []string {
	t.Helper()

	select {
	case batch := <-onChange:
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("expected notification but got timeout")
		return nil
	}
}

func assertQuiet(t *testing.T, onChange <-chan []string) {
	t.Helper()

	select {
	case batch := <-onChange:
		t.Fatalf("unexpected notification: %v", batch)
	case <-time.After(4 * debounce):
	}
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "readme.md")
	require.NoError(t, os.WriteFile(doc, []byte("# a\n"), 0o600))

	onChange := startWatcher(t, dir)

	// Rapid writes should coalesce into a single batch.
	for i := range 10 {
		require.NoError(t, os.WriteFile(doc, []byte(fmt.Sprintf("# %d\n", i)), 0o600))
		time.Sleep(5 * time.Millisecond)
	}

	assert.Equal(t, []string{doc}, waitBatch(t, onChange))
	assertQuiet(t, onChange)
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	onChange := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".draft.md"), []byte("x"), 0o600))

	assertQuiet(t, onChange)
}

func TestWatcher_BatchesSeveralFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	onChange := startWatcher(t, dir)

	a := filepath.Join(dir, "a.md")
	b := filepath.Join(sub, "b.markdown")
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o600))
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o600))

	assert.Equal(t, []string{a, b}, waitBatch(t, onChange))
}

func TestWatcher_FileRootIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "one.md")
	require.NoError(t, os.WriteFile(doc, []byte("1"), 0o600))

	onChange := startWatcher(t, doc)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.md"), []byte("2"), 0o600))
	assertQuiet(t, onChange)

	require.NoError(t, os.WriteFile(doc, []byte("changed"), 0o600))
	assert.Equal(t, []string{doc}, waitBatch(t, onChange))
}

func TestWatcher_NewDirectory(t *testing.T) {
	dir := t.TempDir()
	onChange := startWatcher(t, dir)

	sub := filepath.Join(dir, "later")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the loop a moment to add the new directory.
	time.Sleep(debounce)

	doc := filepath.Join(sub, "new.md")
	require.NoError(t, os.WriteFile(doc, []byte("x"), 0o600))

	assert.Contains(t, waitBatch(t, onChange), doc)
}

func TestWatcher_MissingPath(t *testing.T) {
	w, err := watcher.New(watcher.DefaultConfig(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	_, err = w.Start()
	require.Error(t, err)
}

func TestWatcher_StopTwice(t *testing.T) {
	w, err := watcher.New(watcher.DefaultConfig(t.TempDir()))
	require.NoError(t, err)

	_, err = w.Start()
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	assert.NotPanics(t, func() { _ = w.Stop() })
}
