package watcher

import (
	"sort"
	"sync"
	"time"
)

// Debouncer collapses bursts of change events into one callback.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]struct{}
	interval time.Duration
	timer    *time.Timer
}

// NewDebouncer creates a debouncer that fires interval after the last Add.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]struct{}),
		interval: interval,
	}
}

// Add records a changed path and restarts the quiet period. When it ends,
// callback receives every path recorded since the last flush, sorted.
func (d *Debouncer) Add(path string, callback func(paths []string)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		if paths := d.drain(); len(paths) > 0 {
			callback(paths)
		}
	})
}

func (d *Debouncer) drain() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = make(map[string]struct{})
	sort.Strings(paths)
	return paths
}

// Stop cancels a pending flush.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
