package fsutil

import (
	"context"
	"sync"
)

// Tracker remembers the last known state of files so that repeated change
// notifications for identical content can be ignored.
// It is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	files map[string]*FileInfo
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{files: make(map[string]*FileInfo)}
}

// Record stores info as the current state of info.Path. Nil is ignored.
func (t *Tracker) Record(info *FileInfo) {
	if info == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files[info.Path] = info
}

// Forget drops the state recorded for path.
func (t *Tracker) Forget(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.files, path)
}

// Len returns the number of tracked files.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.files)
}

// Changed returns the subset of paths whose content differs from the
// recorded state, in input order. Untracked paths, and paths that cannot be
// checked, count as changed so the caller reprocesses them and surfaces the
// error itself.
func (t *Tracker) Changed(ctx context.Context, paths []string) ([]string, error) {
	var changed []string
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t.mu.Lock()
		info, ok := t.files[path]
		t.mu.Unlock()

		if !ok {
			changed = append(changed, path)
			continue
		}

		modified, err := CheckModified(ctx, info)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil || modified {
			changed = append(changed, path)
		}
	}
	return changed, nil
}
