// Package watcher reports changes to named files (flir.toml) in a set of
// directories.
package watcher

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet period before changes are reported.
const DefaultDebounce = 100 * time.Millisecond

// ChangeHandler is called with the changed paths after each quiet period.
type ChangeHandler func(paths []string)

// Watcher watches directories for changes to files with particular base
// names. Directories are not walked recursively.
type Watcher struct {
	fsw       *fsnotify.Watcher
	names     []string
	handler   ChangeHandler
	debouncer *Debouncer
	log       logrus.FieldLogger

	mu      sync.Mutex
	watched map[string]bool

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Watcher for files named one of names and starts its event
// loop.
func New(names []string, handler ChangeHandler, debounce time.Duration, log logrus.FieldLogger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fsw:       fsw,
		names:     names,
		handler:   handler,
		debouncer: NewDebouncer(debounce),
		log:       log,
		watched:   make(map[string]bool),
		done:      make(chan struct{}),
	}
	go w.eventLoop()
	return w, nil
}

// Add starts watching dir. Adding the same directory twice is a no-op.
func (w *Watcher) Add(dir string) error {
	dir = filepath.Clean(dir)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[dir] {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.watched[dir] = true
	w.log.WithField("dir", dir).Debug("watching for config changes")
	return nil
}

// Watched returns the watched directories, sorted.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	dirs := make([]string, 0, len(w.watched))
	for d := range w.watched {
		dirs = append(dirs, d)
	}
	slices.Sort(dirs)
	return dirs
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
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
			w.log.WithError(err).Warn("watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	if !slices.Contains(w.names, filepath.Base(event.Name)) {
		return
	}
	w.debouncer.Add(event.Name, func(paths []string) {
		select {
		case <-w.done:
			return
		default:
		}
		w.log.WithField("paths", paths).Info("configuration changed")
		w.handler(paths)
	})
}

// Close stops the watcher. Pending changes are discarded.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.debouncer.Stop()
		err = w.fsw.Close()
	})
	return err
}
