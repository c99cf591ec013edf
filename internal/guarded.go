package internal

import "sync"

// Guarded holds a value that is only reachable under its mutex.
// The zero value is ready to use.
type Guarded[T any] struct {
	mu sync.RWMutex
	v  T
}

func NewGuarded[T any](v T) *Guarded[T] {
	return &Guarded[T]{v: v}
}

// Do runs f with exclusive access to the value.
// The pointer must not escape f.
func (g *Guarded[T]) Do(f func(v *T)) {
	g.mu.Lock()
	defer g.mu.Unlock()

	f(&g.v)
}

// Load returns a copy of the value.
func (g *Guarded[T]) Load() T {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.v
}

// Store replaces the value.
func (g *Guarded[T]) Store(v T) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.v = v
}
