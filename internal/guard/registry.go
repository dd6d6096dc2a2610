// Package guard implements chronokv's guard registry and per-variant
// evaluation (spec.md §4.C): named validation constraints matched against a
// key pattern, each able to accept, counter-offer, or reject a proposed
// value and synthesize alternatives.
package guard

import (
	"strings"
	"sync"

	"github.com/chronokv/chronokv/internal/model"
)

// Registry holds an ordered collection of guards. No uniqueness is enforced
// on Add; Remove deletes the first matching entry by name, per spec.md §4.C.
type Registry struct {
	mu     sync.RWMutex
	guards []model.Guard
}

// NewRegistry creates an empty guard registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a guard to the registry.
func (r *Registry) Add(g model.Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards = append(r.guards, g)
}

// Remove deletes the first guard with the given name. Returns true if one
// existed.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, g := range r.guards {
		if g.Name == name {
			r.guards = append(r.guards[:i], r.guards[i+1:]...)
			return true
		}
	}
	return false
}

// List returns a copy of every registered guard, in registration order.
func (r *Registry) List() []model.Guard {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Guard, len(r.guards))
	copy(out, r.guards)
	return out
}

// ForKey returns the enabled guards whose pattern matches key, in
// registration order.
func (r *Registry) ForKey(key string) []model.Guard {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Guard
	for _, g := range r.guards {
		if g.Enabled && matchPattern(g.KeyPattern, key) {
			out = append(out, g)
		}
	}
	return out
}

// matchPattern implements spec.md §4.C's pattern language: "*" matches any
// key; a pattern ending in "*" is a prefix match; anything else is an exact
// match.
func matchPattern(pattern, key string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(key, pattern[:len(pattern)-1])
	}
	return pattern == key
}
