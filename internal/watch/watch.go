// Package watch refreshes the session when the browsed directory or its
// repository metadata changes on disk.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/avitaltamir/prettygit/internal/git"
	"github.com/avitaltamir/prettygit/internal/logging"
)

// DefaultDebounce coalesces bursts of events into a single refresh.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   logging.Logger
}

// Watcher watches a directory and, when it is inside a repository, the
// repository's metadata directory. It calls onChange once per burst.
type Watcher struct {
	fsw      *fsnotify.Watcher
	onChange func()
	log      logging.Logger
	debounce time.Duration

	mu     sync.Mutex
	paths  map[string]struct{}
	timer  *time.Timer
	closed bool

	done chan struct{}
}

// New starts a watcher with nothing watched. Call Follow to choose the paths.
func New(onChange func(), opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		onChange: onChange,
		log:      opts.Logger,
		debounce: opts.Debounce,
		paths:    make(map[string]struct{}),
		done:     make(chan struct{}),
	}
	if w.log == nil {
		w.log = logging.Nop()
	}
	w.log = w.log.With("component", "watch")
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	go w.run()
	return w, nil
}

// Follow replaces the watched set with dir and, when repoRoot is set,
// the repository metadata directory.
func (w *Watcher) Follow(dir, repoRoot string) {
	want := map[string]struct{}{dir: {}}
	if repoRoot != "" {
		want[filepath.Join(repoRoot, git.MetadataDirName)] = struct{}{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	for path := range w.paths {
		if _, ok := want[path]; ok {
			continue
		}
		if err := w.fsw.Remove(path); err != nil {
			w.log.Debug("watch remove failed", "path", path, "err", err)
		}
		delete(w.paths, path)
	}

	for path := range want {
		if _, ok := w.paths[path]; ok {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		if err := w.fsw.Add(path); err != nil {
			w.log.Warn("watch add failed", "path", path, "err", err)
			continue
		}
		w.paths[path] = struct{}{}
	}
}

// Watched returns the currently watched paths.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.paths))
	for p := range w.paths {
		out = append(out, p)
	}
	return out
}

// Close stops the watcher. Pending refreshes are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	w.mu.Unlock()

	return w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ignored(ev) {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "err", err)
		}
	}
}

// ignored filters lock files and pure attribute changes.
func ignored(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}
	return strings.HasSuffix(ev.Name, ".lock")
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		current := w.timer == t && !w.closed
		if current {
			w.timer = nil
		}
		w.mu.Unlock()
		if current && w.onChange != nil {
			w.onChange()
		}
	})
	w.timer = t
}
