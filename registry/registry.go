// Package registry is the central owning store for components: the
// runtime never hands out references to a component, only opaque
// ComponentIDs, which avoids reference cycles (focus, previous-focus,
// parent-root) and keeps commands dispatchable across threads (spec §9,
// "Owning graph → registry + ids").
package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ComponentID is an opaque handle minted by Register. Its zero value
// never matches a real component.
type ComponentID struct{ id uuid.UUID }

func (c ComponentID) String() string { return c.id.String() }

// IsZero reports whether c is the uninitialized zero value.
func (c ComponentID) IsZero() bool { return c.id == uuid.Nil }

// Component is the minimal shape the registry stores; the full contract
// (render, handle_event, ...) lives in package component and is checked
// at the runtime boundary, not here — the registry only owns identity.
type Component interface{}

// Registry owns every live component, indexed by ComponentID.
//
// Safe for concurrent use: Register/Get/Remove all take an internal
// mutex, since commands arriving via a RuntimeHandle from another
// goroutine may resolve ids concurrently with the event loop.
type Registry struct {
	mu    sync.RWMutex
	items map[ComponentID]Component
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{items: make(map[ComponentID]Component)}
}

// Register mints a fresh ComponentID bound to c.
func (r *Registry) Register(c Component) ComponentID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := ComponentID{id: uuid.New()}
	r.items[id] = c
	return id
}

// Get resolves id to its bound component. ok is false for an unknown or
// already-removed id — callers must treat this as an invalid-id error
// (spec §7), never as a panic.
func (r *Registry) Get(id ComponentID) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	return c, ok
}

// Remove destroys the binding for id. It reports an error if id was
// never registered or has already been removed — spec's supplemented
// behavior (SPEC_FULL §7): double-remove is an invalid-id error, not a
// silent no-op.
func (r *Registry) Remove(id ComponentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("registry: remove: unknown component id %s", id)
	}
	delete(r.items, id)
	return nil
}

// Len reports the number of live components.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
