package worker

import (
	"fmt"
	"sync"
)

// Registry is a lookup table from worker type name to its Type
// descriptor. A Queue holds exactly one Registry and consults it on
// every enqueue and admission to find the code to run.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Register adds a worker type. It panics on a duplicate name, since a
// name collision between two worker declarations is a programming error
// caught once at startup, not a runtime condition callers recover from.
func (r *Registry) Register(t *Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[t.Name]; exists {
		panic(fmt.Sprintf("worker: duplicate registration for %q", t.Name))
	}
	r.types[t.Name] = t
}

// Lookup returns the worker type registered under name, if any.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[name]
	return t, ok
}

// Names returns every registered worker type name, in no particular
// order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	return names
}
