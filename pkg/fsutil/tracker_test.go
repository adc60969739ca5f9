package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codedeco/pkg/fsutil"
)

func TestTracker_Changed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	same := filepath.Join(dir, "same.md")
	touched := filepath.Join(dir, "touched.md")
	edited := filepath.Join(dir, "edited.md")
	untracked := filepath.Join(dir, "new.md")

	tracker := fsutil.NewTracker()
	for _, path := range []string{same, touched, edited} {
		require.NoError(t, os.WriteFile(path, []byte("# doc\n"), 0o600))
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		tracker.Record(info)
	}
	require.Equal(t, 3, tracker.Len())

	// Same bytes, newer mod time.
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.WriteFile(touched, []byte("# doc\n"), 0o600))
	require.NoError(t, os.Chtimes(touched, future, future))

	// Same size, different bytes.
	require.NoError(t, os.WriteFile(edited, []byte("# dot\n"), 0o600))
	require.NoError(t, os.Chtimes(edited, future, future))

	changed, err := tracker.Changed(ctx, []string{same, touched, edited, untracked})
	require.NoError(t, err)
	assert.Equal(t, []string{edited, untracked}, changed)

	tracker.Forget(same)
	tracker.Record(nil)
	assert.Equal(t, 2, tracker.Len())
}

func TestTracker_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fsutil.NewTracker().Changed(ctx, []string{"a.md"})
	require.ErrorIs(t, err, context.Canceled)
}
