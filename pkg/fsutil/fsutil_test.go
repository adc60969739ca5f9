package fsutil_test

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codedeco/pkg/fsutil"
)

const noteDoc = "# Notes\n\n```go\nfunc main() {}\n```\n"

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadFile_Document(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, t.TempDir(), "notes.md", noteDoc)

	content, info, err := fsutil.ReadFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, noteDoc, string(content))
	assert.Equal(t, path, info.Path)
	assert.Equal(t, int64(len(noteDoc)), info.Size)
	assert.Equal(t, sha256.Sum256([]byte(noteDoc)), info.Hash)
	assert.False(t, info.ModTime.IsZero())
}

func TestReadFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		want error
	}{
		{name: "missing document", path: filepath.Join(dir, "gone.md"), want: fsutil.ErrNotFound},
		{name: "directory argument", path: dir, want: fsutil.ErrIsDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content, info, err := fsutil.ReadFile(context.Background(), tt.path)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, content)
			assert.Nil(t, info)
		})
	}
}

func TestReadFile_Cancelled(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, t.TempDir(), "notes.md", noteDoc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := fsutil.ReadFile(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		change func(t *testing.T, path string)
		want   bool
	}{
		{
			name:   "untouched",
			change: func(*testing.T, string) {},
			want:   false,
		},
		{
			name: "saved without edits",
			change: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte(noteDoc), 0o600))
				require.NoError(t, os.Chtimes(path, future, future))
			},
			want: false,
		},
		{
			name: "code block edited in place",
			change: func(t *testing.T, path string) {
				edited := "# Notes\n\n```go\nfunc mian() {}\n```\n"
				require.NoError(t, os.WriteFile(path, []byte(edited), 0o600))
				require.NoError(t, os.Chtimes(path, future, future))
			},
			want: true,
		},
		{
			name: "block appended",
			change: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte(noteDoc+"\n```js\nx\n```\n"), 0o600))
			},
			want: true,
		},
		{
			name: "document deleted",
			change: func(t *testing.T, path string) {
				require.NoError(t, os.Remove(path))
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			path := writeDoc(t, t.TempDir(), "notes.md", noteDoc)

			_, info, err := fsutil.ReadFile(ctx, path)
			require.NoError(t, err)

			tt.change(t, path)

			modified, err := fsutil.CheckModified(ctx, info)
			require.NoError(t, err)
			assert.Equal(t, tt.want, modified)
		})
	}
}

func TestCheckModified_NilInfo(t *testing.T) {
	t.Parallel()

	_, err := fsutil.CheckModified(context.Background(), nil)
	require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
}
