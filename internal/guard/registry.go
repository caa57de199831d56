package guard

import (
	"fmt"
	"sort"
	"sync"
)

// Factory produces a guard bound to one parameter, addressed by name with a
// positional fallback. Guards needing extra configuration register a
// closure over it.
type Factory func(param string, pos int) Guard

type registryKey struct {
	namespace string
	name      string
}

// Registry maps (namespace, name) pairs to guard factories. It is a
// lookup catalog for hosts assembling guard sets; calls never consult it.
type Registry struct {
	mu      sync.RWMutex
	entries map[registryKey]Factory
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[registryKey]Factory)}
}

func (r *Registry) Register(namespace, name string, f Factory) error {
	if f == nil {
		return fmt.Errorf("guard registry: nil factory for %s/%s", namespace, name)
	}
	key := registryKey{namespace, name}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("guard registry: %s/%s already registered", namespace, name)
	}
	r.entries[key] = f
	return nil
}

func (r *Registry) Get(namespace, name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.entries[registryKey{namespace, name}]
	return f, ok
}

func (r *Registry) Has(namespace, name string) bool {
	_, ok := r.Get(namespace, name)
	return ok
}

// List returns the registered names in a namespace, sorted.
func (r *Registry) List(namespace string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for key := range r.entries {
		if key.namespace == namespace {
			names = append(names, key.name)
		}
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Unregister(namespace, name string) bool {
	key := registryKey{namespace, name}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; !exists {
		return false
	}
	delete(r.entries, key)
	return true
}

// CommonRegistry returns a registry preloaded with the prebuilt guards
// under the "common" namespace.
func CommonRegistry() *Registry {
	r := NewRegistry()
	common := map[string]Factory{
		"notNil":   NotNil,
		"notEmpty": NotEmpty,
		"positive": Positive,
	}
	for name, f := range common {
		// Fresh registry, duplicates impossible.
		_ = r.Register("common", name, f)
	}
	return r
}
