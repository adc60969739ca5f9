package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codedeco/pkg/runner"
)

// tree writes each relative path under a fresh temp dir and returns the dir.
func tree(t *testing.T, paths ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, rel := range paths {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("# doc\n"), 0o600))
	}
	return dir
}

func abs(dir string, rels ...string) []string {
	out := make([]string, len(rels))
	for i, rel := range rels {
		out[i] = filepath.Join(dir, filepath.FromSlash(rel))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	layout := []string{
		"readme.md",
		"CHANGELOG.markdown",
		"docs/guide.md",
		"docs/api/ref.md",
		"vendor/lib/readme.md",
		"src/main.go",
		"notes.txt",
		".hidden.md",
		".git/config.md",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "walks markdown only and skips hidden entries",
			opts: runner.Options{},
			want: []string{"CHANGELOG.markdown", "docs/api/ref.md", "docs/guide.md", "readme.md", "vendor/lib/readme.md"},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".TXT"}},
			want: []string{"notes.txt"},
		},
		{
			name: "exclude directory glob",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**"}},
			want: []string{"CHANGELOG.markdown", "docs/api/ref.md", "docs/guide.md", "readme.md"},
		},
		{
			name: "exclude basename glob",
			opts: runner.Options{ExcludeGlobs: []string{"readme.md"}},
			want: []string{"CHANGELOG.markdown", "docs/api/ref.md", "docs/guide.md"},
		},
		{
			name: "include doublestar glob",
			opts: runner.Options{IncludeGlobs: []string{"docs/**/*.md"}},
			want: []string{"docs/api/ref.md", "docs/guide.md"},
		},
		{
			name: "include single level glob",
			opts: runner.Options{IncludeGlobs: []string{"docs/*.md"}},
			want: []string{"docs/guide.md"},
		},
		{
			name: "multiple paths are deduplicated",
			opts: runner.Options{Paths: []string{"docs", "docs/guide.md", "readme.md"}},
			want: []string{"docs/api/ref.md", "docs/guide.md", "readme.md"},
		},
		{
			name: "explicit non markdown file is dropped",
			opts: runner.Options{Paths: []string{"notes.txt"}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := tree(t, layout...)
			opts := tt.opts
			opts.WorkingDir = dir

			got, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)

			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, abs(dir, tt.want...), got)
		})
	}
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"missing"},
		WorkingDir: t.TempDir(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: tree(t, "a.md")})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	dir := tree(t, "docs/a.md", "outside/b.md")
	require.NoError(t, os.Symlink(filepath.Join(dir, "docs/a.md"), filepath.Join(dir, "link.md")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "outside"), filepath.Join(dir, "docs/linked")))

	got, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"docs", "link.md"},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "docs/a.md", "link.md"), got)

	got, err = runner.Discover(context.Background(), runner.Options{
		Paths:          []string{"docs"},
		WorkingDir:     dir,
		FollowSymlinks: true,
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "docs/a.md", "outside/b.md"), got)
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	exts := runner.DefaultExtensions()
	assert.Equal(t, []string{".md", ".markdown"}, exts)

	exts[0] = ".txt"
	assert.Equal(t, ".md", runner.DefaultExtensions()[0], "DefaultExtensions must return a copy")
}
