package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCollapsesBurst(t *testing.T) {
	t.Parallel()
	d := NewDebouncer(30 * time.Millisecond)
	got := make(chan []string, 4)
	cb := func(paths []string) { got <- paths }

	d.Add("/b/flir.toml", cb)
	d.Add("/a/flir.toml", cb)
	d.Add("/b/flir.toml", cb)

	select {
	case paths := <-got:
		assert.Equal(t, []string{"/a/flir.toml", "/b/flir.toml"}, paths)
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never fired")
	}

	select {
	case paths := <-got:
		t.Fatalf("second flush: %v", paths)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncerStop(t *testing.T) {
	t.Parallel()
	d := NewDebouncer(30 * time.Millisecond)
	got := make(chan []string, 1)
	d.Add("/a/flir.toml", func(paths []string) { got <- paths })
	d.Stop()

	select {
	case paths := <-got:
		t.Fatalf("stopped debouncer fired: %v", paths)
	case <-time.After(100 * time.Millisecond):
	}
}
