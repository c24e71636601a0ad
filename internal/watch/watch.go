// Package watch turns filesystem activity into adapter triggers.
//
// A Watcher observes files and directories and reports each change as
// a save, change, or remove trigger. Writes map to change triggers;
// newly appearing files (including editors that save by writing a
// temporary file and renaming it into place) map to save triggers.
package watch

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/lintbridge/internal/logging"
)

// Kind classifies a trigger.
type Kind int

const (
	// KindSave indicates a file appeared or was saved into place.
	KindSave Kind = iota + 1

	// KindChange indicates a file's content was written.
	KindChange

	// KindRemove indicates a file disappeared.
	KindRemove
)

// String returns the trigger kind name.
func (k Kind) String() string {
	switch k {
	case KindSave:
		return "save"
	case KindChange:
		return "change"
	case KindRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// TriggerFunc receives one trigger per filesystem event.
type TriggerFunc func(path string, kind Kind)

// Watcher watches files and directories and reports triggers.
type Watcher struct {
	fsw       *fsnotify.Watcher
	onTrigger TriggerFunc
	logger    *logging.Logger

	ignoreHidden bool

	mu     sync.Mutex
	closed bool

	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the watcher's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithHidden includes hidden files and directories, which are skipped
// by default.
func WithHidden() Option {
	return func(w *Watcher) {
		w.ignoreHidden = false
	}
}

// New creates a watcher delivering triggers to onTrigger. The
// callback runs on the watcher's goroutine and must not block.
func New(onTrigger TriggerFunc, opts ...Option) (*Watcher, error) {
	if onTrigger == nil {
		return nil, ErrNoTrigger
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:          fsw,
		onTrigger:    onTrigger,
		logger:       logging.Default().WithComponent("watch"),
		ignoreHidden: true,
		closeCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Watch adds a file, or a directory tree, to the watch set.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.fsw.Add(absPath)
	}

	return filepath.WalkDir(absPath, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.shouldIgnore(p) && p != absPath {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(p); addErr != nil {
			w.logger.Warn("watching %s: %v", p, addErr)
		}
		return nil
	})
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// processLoop converts fsnotify events into triggers.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.shouldIgnore(event.Name) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			// Watch directories as they appear so files created
			// inside them still trigger.
			if addErr := w.fsw.Add(event.Name); addErr != nil {
				w.logger.Warn("watching %s: %v", event.Name, addErr)
			}
			return
		}
		w.onTrigger(event.Name, KindSave)

	case event.Op.Has(fsnotify.Write):
		w.onTrigger(event.Name, KindChange)

	case event.Op.Has(fsnotify.Rename):
		// Rename fires for the old name. When the path is gone the
		// file moved away; when it still exists it was replaced.
		if _, err := os.Stat(event.Name); err != nil {
			w.onTrigger(event.Name, KindRemove)
			return
		}
		w.onTrigger(event.Name, KindSave)

	case event.Op.Has(fsnotify.Remove):
		w.onTrigger(event.Name, KindRemove)
	}
}

// shouldIgnore reports whether a path is hidden and hidden paths are
// being skipped.
func (w *Watcher) shouldIgnore(path string) bool {
	if !w.ignoreHidden {
		return false
	}
	base := filepath.Base(path)
	return len(base) > 1 && base[0] == '.'
}
