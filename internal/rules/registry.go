package rules

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the set of known rules keyed by code.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry that rule packages
// register into from init.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds r to the default registry.
func Register(r Rule) {
	defaultRegistry.Register(r)
}

// Register adds r. Registering the same code twice is a programming error
// and panics.
func (reg *Registry) Register(r Rule) {
	code := r.Metadata().Code
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, dup := reg.rules[code]; dup {
		panic(fmt.Sprintf("rules: duplicate registration of %q", code))
	}
	reg.rules[code] = r
}

// Get returns the rule with the given code.
func (reg *Registry) Get(code string) (Rule, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rules[code]
	return r, ok
}

// All returns every registered rule sorted by code.
func (reg *Registry) All() []Rule {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	all := make([]Rule, 0, len(reg.rules))
	for _, r := range reg.rules {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Metadata().Code < all[j].Metadata().Code
	})
	return all
}

// Codes returns every registered code, sorted.
func (reg *Registry) Codes() []string {
	all := reg.All()
	codes := make([]string, len(all))
	for i, r := range all {
		codes[i] = r.Metadata().Code
	}
	return codes
}
