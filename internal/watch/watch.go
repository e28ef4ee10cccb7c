// Package watch reports changes to scene, mesh and texture files so the
// camera can be re-framed while an object is being edited.
package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce drops repeated events for the same file within this window.
const Debounce = 100 * time.Millisecond

var watchedExt = map[string]bool{
	".yaml": true, ".yml": true,
	".obj": true, ".stl": true,
	".png": true, ".jpg": true, ".jpeg": true, ".tga": true,
}

// Watcher forwards relevant file changes on Events.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	doneCh  chan struct{}
	once    sync.Once

	mu      sync.RWMutex
	ignored map[string]bool
}

// NewWatcher watches the given directories. Files can be passed too; their
// parent directory is watched so editors that replace files on save are seen.
func NewWatcher(paths ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		dir := p
		if IsWatched(p) {
			dir = filepath.Dir(p)
		}
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
		ignored: make(map[string]bool),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.doneCh
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Ignore drops events for the given files, typically the tool's own outputs
// when they land in a watched directory.
func (w *Watcher) Ignore(paths ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		w.ignored[pathKey(p)] = true
	}
}

func (w *Watcher) isIgnored(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ignored[pathKey(path)]
}

func pathKey(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !IsWatched(event.Name) || w.isIgnored(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < Debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// IsWatched reports whether a change to path can affect framing or preview.
func IsWatched(path string) bool {
	return watchedExt[strings.ToLower(filepath.Ext(path))]
}
