// watcher.go - File change notifications for watch mode
//
// Watches calculator files and emits their paths after writes, debounced,
// so rapid editor save storms trigger one recalculation.

package store

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceWindow = 100 * time.Millisecond

// Watcher monitors files for changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	changes chan string

	mu         sync.Mutex
	lastChange map[string]time.Time
}

// NewWatcher creates a watcher for the given files' directories. Watching
// directories rather than files survives editors that rename-on-save.
func NewWatcher(paths ...string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:    fsWatcher,
		changes:    make(chan string, 16),
		lastChange: make(map[string]time.Time),
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return nil, err
		}
	}
	return w, nil
}

// Changes is the stream of changed file paths.
func (w *Watcher) Changes() <-chan string { return w.changes }

// Start pumps filesystem events until the context ends.
func (w *Watcher) Start(ctx context.Context) {
	defer close(w.changes)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.debounced(event.Name) {
				continue
			}
			select {
			case w.changes <- event.Name:
			default:
				// Drop rather than block; the next event catches up.
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) debounced(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	if now.Sub(w.lastChange[path]) < debounceWindow {
		return false
	}
	w.lastChange[path] = now
	return true
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error { return w.watcher.Close() }
