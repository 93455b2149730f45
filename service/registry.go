// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the shared, type-indexed service registry
// injected into every hook invocation.
package service

import (
	"reflect"
	"sync"
)

// Registry is a type-indexed mapping in which each distinct service type
// has at most one entry. It is read-mostly and shared across hooks;
// each stored service is responsible for its own internal
// synchronization — the registry itself only guards its own map.
//
// The zero value is ready to use.
type Registry struct {
	mu       sync.RWMutex
	services map[reflect.Type]any
}

// Register inserts value keyed by its own concrete type, replacing any
// existing entry of that type. Returns the previous value and true if
// one was replaced.
func Register[T any](r *Registry, value T) (previous T, replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.services == nil {
		r.services = make(map[reflect.Type]any)
	}
	key := reflect.TypeFor[T]()
	if old, ok := r.services[key]; ok {
		previous, replaced = old.(T), true
	}
	r.services[key] = value
	return previous, replaced
}

// Get returns the registered value of type T, if any.
func Get[T any](r *Registry) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var zero T
	if r.services == nil {
		return zero, false
	}
	v, ok := r.services[reflect.TypeFor[T]()]
	if !ok {
		return zero, false
	}
	value, ok := v.(T)
	return value, ok
}

// MustGet is like [Get] but panics if no service of type T is
// registered. Intended for hook setup code that considers a missing
// service a wiring bug, not a runtime condition to handle.
func MustGet[T any](r *Registry) T {
	v, ok := Get[T](r)
	if !ok {
		panic("service: no registered value for requested type")
	}
	return v
}

// Remove deletes the entry for type T, if present.
func Remove[T any](r *Registry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.services == nil {
		return
	}
	delete(r.services, reflect.TypeFor[T]())
}
