package lspserver

import "sync"

// publishGuard drops diagnostics computed for a document state that is no
// longer current. The event loop calls Track on every open, change and
// re-lint, which hands out a fresh generation; workers publish through
// Publish with the generation their task was created under.
//
// Generations come from one counter, so a document closed and reopened at
// the same version still gets a new generation.
type publishGuard struct {
	mu   sync.Mutex
	next uint64
	live map[DocumentKey]uint64

	// out serializes writes. It is never held while acquiring mu from the
	// event loop, so Track and Forget do not wait on the transport.
	out sync.Mutex
}

func newPublishGuard() *publishGuard {
	return &publishGuard{live: make(map[DocumentKey]uint64)}
}

// Track starts a new generation for key and returns it.
func (g *publishGuard) Track(key DocumentKey) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	g.live[key] = g.next
	return g.next
}

// Forget stops tracking key; later publishes for it are dropped.
func (g *publishGuard) Forget(key DocumentKey) {
	g.mu.Lock()
	delete(g.live, key)
	g.mu.Unlock()
}

func (g *publishGuard) current(key DocumentKey, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	live, ok := g.live[key]
	return ok && live == gen
}

// Publish runs fn if gen is still the live generation of key, and reports
// whether it did. A publish that passed the check finishes before any
// later Publish or Retire writes.
func (g *publishGuard) Publish(key DocumentKey, gen uint64, fn func()) bool {
	g.out.Lock()
	defer g.out.Unlock()

	if !g.current(key, gen) {
		return false
	}
	fn()
	return true
}

// Retire forgets key and then runs fn after any in-flight publish.
func (g *publishGuard) Retire(key DocumentKey, fn func()) {
	g.Forget(key)
	g.out.Lock()
	defer g.out.Unlock()
	fn()
}
