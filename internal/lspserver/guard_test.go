package lspserver

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishGuard(t *testing.T) {
	t.Parallel()
	g := newPublishGuard()
	key := DocumentKey("file:///a.R")
	calls := 0
	publish := func() { calls++ }

	assert.False(t, g.Publish(key, 1, publish), "untracked document")

	first := g.Track(key)
	assert.True(t, g.Publish(key, first, publish))

	second := g.Track(key)
	assert.Greater(t, second, first)
	assert.False(t, g.Publish(key, first, publish), "superseded generation")
	assert.True(t, g.Publish(key, second, publish))

	g.Forget(key)
	assert.False(t, g.Publish(key, second, publish), "closed document")
	assert.Equal(t, 2, calls)
}

func TestPublishGuard_ReopenStartsNewGeneration(t *testing.T) {
	t.Parallel()
	g := newPublishGuard()
	key := DocumentKey("file:///a.R")

	before := g.Track(key)
	g.Retire(key, func() {})
	after := g.Track(key)

	assert.NotEqual(t, before, after)
	assert.False(t, g.Publish(key, before, func() { t.Error("published for closed document") }))
	assert.True(t, g.Publish(key, after, func() {}))
}

func TestPublishGuard_RetireWaitsForInflightPublish(t *testing.T) {
	t.Parallel()
	g := newPublishGuard()
	key := DocumentKey("file:///a.R")
	gen := g.Track(key)

	writing := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var order []string
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	done := make(chan bool)
	go func() {
		done <- g.Publish(key, gen, func() {
			close(writing)
			<-release
			record("publish")
		})
	}()
	<-writing

	// Track does not wait for the write in progress.
	tracked := make(chan struct{})
	go func() {
		g.Track(DocumentKey("file:///b.R"))
		close(tracked)
	}()
	select {
	case <-tracked:
	case <-time.After(time.Second):
		t.Fatal("Track blocked on an in-flight publish")
	}

	retired := make(chan struct{})
	go func() {
		g.Retire(key, func() { record("clear") })
		close(retired)
	}()
	close(release)
	require.True(t, <-done)
	<-retired

	assert.Equal(t, []string{"publish", "clear"}, order)
}

func TestPublishGuard_Concurrent(t *testing.T) {
	t.Parallel()
	g := newPublishGuard()
	key := DocumentKey("file:///a.R")

	var mu sync.Mutex
	var published []uint64
	var wg sync.WaitGroup
	for range 50 {
		gen := g.Track(key)
		wg.Add(2)
		go func() {
			defer wg.Done()
			g.Track(key)
		}()
		go func() {
			defer wg.Done()
			g.Publish(key, gen, func() {
				mu.Lock()
				published = append(published, gen)
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, len(published), 50)
}
