// Package registry holds the archived-message counter shared between the
// consumer loop and the query surface.
package registry

import "sync"

// Registry is a concurrency-safe counter of successfully archived messages.
// It is process-lifetime scoped: initialized to zero at start, never
// decremented, never persisted. The raw count is only reachable through
// Increment and Read.
type Registry struct {
	mu    sync.RWMutex
	count int64
}

// New creates a Registry starting at zero.
func New() *Registry {
	return &Registry{}
}

// Increment records one successfully archived message.
func (r *Registry) Increment() {
	r.mu.Lock()
	r.count++
	r.mu.Unlock()
}

// Read returns the current count.
func (r *Registry) Read() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}
