// Package watcher watches Markdown sources and reports debounced batches of
// changed files.
package watcher

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/codedeco/internal/logging"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watcher monitors directories for changes to files with given extensions.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	roots      []string
	extensions []string
	files      map[string]struct{}
	trees      []string
	debounce   time.Duration
	logger     *log.Logger

	onChange chan []string
	done     chan struct{}
	stopOnce sync.Once
}

// Config holds watcher configuration options.
type Config struct {
	// Paths are files or directories to watch. Directories are watched
	// recursively, skipping hidden ones.
	Paths []string

	// Extensions limits notifications to these lowercase extensions.
	// Empty means every file.
	Extensions []string

	// DebounceDur is the quiet period before a batch is delivered.
	DebounceDur time.Duration

	// Logger receives watch errors. Nil discards them.
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(paths ...string) Config {
	return Config{
		Paths:       paths,
		Extensions:  []string{".md", ".markdown"},
		DebounceDur: DefaultDebounce,
	}
}

// New creates a new watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	debounce := cfg.DebounceDur
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	exts := make([]string, len(cfg.Extensions))
	for i, ext := range cfg.Extensions {
		exts[i] = strings.ToLower(ext)
	}

	return &Watcher{
		fsWatcher:  fsw,
		roots:      slices.Clone(cfg.Paths),
		extensions: exts,
		files:      make(map[string]struct{}),
		debounce:   debounce,
		logger:     logger,
		onChange:   make(chan []string, 1),
		done:       make(chan struct{}),
	}, nil
}

// Start begins watching. The returned channel receives the sorted, absolute
// paths changed since the previous batch.
func (w *Watcher) Start() (<-chan []string, error) {
	for _, root := range w.roots {
		if err := w.addRoot(root); err != nil {
			return nil, err
		}
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

// addRoot watches a file's directory, or a directory tree.
func (w *Watcher) addRoot(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}
	if !info.IsDir() {
		w.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
		return nil
	}

	w.trees = append(w.trees, abs)
	return w.addTree(abs)
}

// addTree watches dir and every non-hidden directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("watching directory %s: %w", path, err)
		}
		return nil
	})
}

// loop collects relevant events and flushes them once the debounce expires.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending = make(map[string]struct{})
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				w.watchNewDir(event.Name)
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			pending[event.Name] = struct{}{}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			timer = nil
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for path := range pending {
				batch = append(batch, path)
			}
			sort.Strings(batch)
			clear(pending)

			select {
			case w.onChange <- batch:
			case <-w.done:
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", logging.FieldError, err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// watchNewDir starts watching a directory created after Start.
func (w *Watcher) watchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || strings.HasPrefix(filepath.Base(path), ".") {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("watch new directory", logging.FieldPath, path, logging.FieldError, err)
	}
}

// isRelevantEvent checks if the event should trigger a refresh.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	// Editors that save via rename produce Create on the target.
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
		return false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || !w.covers(event.Name) {
		return false
	}
	if len(w.extensions) == 0 {
		return true
	}
	return slices.Contains(w.extensions, strings.ToLower(filepath.Ext(base)))
}

// covers reports whether path is an explicitly watched file or lies in a
// watched tree. A file root watches its whole directory, so siblings of
// the file arrive as events too and are dropped here.
func (w *Watcher) covers(path string) bool {
	if _, ok := w.files[path]; ok {
		return true
	}
	for _, tree := range w.trees {
		rel, err := filepath.Rel(tree, path)
		if err == nil && filepath.IsLocal(rel) {
			return true
		}
	}
	return false
}
