package generator

import (
	"sort"
	"sync"
)

// The registry maps stable generator identifiers to factories. Generator
// packages register themselves in init(), so importing a generator package
// is all it takes to make it resolvable by name.
var (
	registryMu sync.RWMutex
	registry   = map[string]func() Generator{}
)

// Register makes a generator constructible under the given identifier.
// A later registration for the same identifier replaces the earlier one.
func Register(name string, factory func() Generator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New instantiates the generator registered under name.
// The second result is false if no such generator is registered.
func New(name string) (Generator, bool) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Names returns the registered generator identifiers in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
