// Package actor holds the per-sanctuary actor registry.
package actor

import (
	"sort"
	"sync"
)

// Registry lazily creates and keeps one actor per sanctuary.
type Registry[T any] struct {
	mu     sync.Mutex
	actors map[string]T
	create func(sanctuary string) (T, bool)
}

// NewRegistry creates a registry. create returns false for unknown sanctuaries;
// misses are not cached.
func NewRegistry[T any](create func(sanctuary string) (T, bool)) *Registry[T] {
	return &Registry[T]{
		actors: make(map[string]T),
		create: create,
	}
}

// Get returns the sanctuary's actor, creating it on first use.
func (r *Registry[T]) Get(sanctuary string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.actors[sanctuary]; ok {
		return a, true
	}
	a, ok := r.create(sanctuary)
	if !ok {
		return a, false
	}
	r.actors[sanctuary] = a
	return a, true
}

// Each calls fn for every created actor in sanctuary order.
func (r *Registry[T]) Each(fn func(sanctuary string, actor T)) {
	r.mu.Lock()
	names := make([]string, 0, len(r.actors))
	for name := range r.actors {
		names = append(names, name)
	}
	snapshot := make(map[string]T, len(r.actors))
	for k, v := range r.actors {
		snapshot[k] = v
	}
	r.mu.Unlock()

	sort.Strings(names)
	for _, name := range names {
		fn(name, snapshot[name])
	}
}
