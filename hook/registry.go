// SPDX-License-Identifier: GPL-3.0-or-later

package hook

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dhcpforge/dhcpforge/packet"
	"github.com/dhcpforge/dhcpforge/pctx"
	"github.com/dhcpforge/dhcpforge/service"
)

// stateHooks holds the hooks registered for one lifecycle state plus
// its precomputed execution order.
type stateHooks[P any, PP packet.PacketPtr[P]] struct {
	hooks       map[uuid.UUID]*Hook[P, PP]
	insertOrder []uuid.UUID
	order       []uuid.UUID
	needRebuild bool
}

// Registry is a per-state collection of hooks, each with a precomputed
// topological execution order, plus the shared service registry
// injected into every hook call.
//
// Safe for concurrent use: registration takes a write lock, dispatch
// takes a read lock for the duration of the call. Per spec, the
// registry is expected to be effectively immutable once the pipeline
// is running; the lock exists for safety, not to support a high rate
// of concurrent registration.
type Registry[P any, PP packet.PacketPtr[P]] struct {
	mu       sync.RWMutex
	states   map[pctx.State]*stateHooks[P, PP]
	services service.Registry
}

// NewRegistry returns an empty [Registry].
func NewRegistry[P any, PP packet.PacketPtr[P]]() *Registry[P, PP] {
	return &Registry[P, PP]{
		states: make(map[pctx.State]*stateHooks[P, PP]),
	}
}

// RegisterHook inserts hook under state, overwriting any previous
// definition with the same id, and attempts to rebuild that state's
// execution order immediately. If the rebuild fails (a cycle), the
// state is left marked for rebuild and the next [Registry.RunHooks]
// call for it returns [ErrCircularDependencies].
func (r *Registry[P, PP]) RegisterHook(state pctx.State, h *Hook[P, PP]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sh, ok := r.states[state]
	if !ok {
		sh = &stateHooks[P, PP]{hooks: make(map[uuid.UUID]*Hook[P, PP])}
		r.states[state] = sh
	}
	if _, exists := sh.hooks[h.id]; !exists {
		sh.insertOrder = append(sh.insertOrder, h.id)
	}
	sh.hooks[h.id] = h
	sh.needRebuild = true

	if order, err := generateOrder(sh); err == nil {
		sh.order = order
		sh.needRebuild = false
	}
}

// RegisterService inserts value into the shared service registry keyed
// by its own type, replacing any existing entry of that type.
func RegisterService[P any, PP packet.PacketPtr[P], T any](r *Registry[P, PP], value T) {
	service.Register(&r.services, value)
}

// RunHooks executes every applicable hook for ctx.State(), per
// spec.md §4.4: skip hooks whose dependencies aren't met (a missing
// dependency result skips rather than fails), invoke eligible hooks in
// topological order, and divert to the failure chain if a Fatal hook
// fails.
func (r *Registry[P, PP]) RunHooks(ctx *pctx.Context[P, PP]) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ctx.State() == pctx.Failure {
		r.runFailureChain(ctx)
		return ErrFatalHookFailed
	}

	sh, ok := r.states[ctx.State()]
	if !ok {
		return nil // no hooks for this state is legal
	}
	if sh.needRebuild {
		return ErrCircularDependencies
	}

	exitCodes := make(map[uuid.UUID]int, len(sh.order))
	for _, id := range sh.order {
		if _, done := exitCodes[id]; done {
			continue
		}
		h := sh.hooks[id]
		if !eligible(exitCodes, h.dependencies) {
			continue
		}

		code, err := h.exec(&r.services, ctx)
		if err != nil {
			if h.HasFlag(Fatal) {
				ctx.SetState(pctx.Failure)
				r.runFailureChain(ctx)
				return ErrFatalHookFailed
			}
			exitCodes[id] = -1
			continue
		}
		exitCodes[id] = code
	}
	return nil
}

// runFailureChain runs every hook registered against [pctx.Failure]
// unconditionally: the dependency graph is ignored, and errors raised
// by failure hooks are swallowed.
func (r *Registry[P, PP]) runFailureChain(ctx *pctx.Context[P, PP]) {
	sh, ok := r.states[pctx.Failure]
	if !ok {
		return
	}
	for _, id := range sh.insertOrder {
		h := sh.hooks[id]
		_, _ = h.exec(&r.services, ctx)
	}
}

// eligible reports whether every dependency's recorded outcome matches
// the polarity the hook requires. A dependency with no recorded outcome
// yet makes the hook ineligible (skipped, not failed).
func eligible(exitCodes map[uuid.UUID]int, dependencies map[uuid.UUID]bool) bool {
	for depID, needSuccess := range dependencies {
		code, ok := exitCodes[depID]
		if !ok {
			return false
		}
		if needSuccess && code < 0 {
			return false
		}
		if !needSuccess && code >= 0 {
			return false
		}
	}
	return true
}

// generateOrder computes a topological sort of sh's dependency graph by
// repeated ready-batch removal (Kahn's algorithm). Ties within a batch
// are broken by registration order for determinism.
func generateOrder[P any, PP packet.PacketPtr[P]](sh *stateHooks[P, PP]) ([]uuid.UUID, error) {
	remaining := make(map[uuid.UUID][]uuid.UUID, len(sh.hooks))
	for id, h := range sh.hooks {
		deps := make([]uuid.UUID, 0, len(h.dependencies))
		for dep := range h.dependencies {
			deps = append(deps, dep)
		}
		remaining[id] = deps
	}

	var order []uuid.UUID
	for len(remaining) > 0 {
		var ready []uuid.UUID
		for _, id := range sh.insertOrder {
			if deps, ok := remaining[id]; ok && len(deps) == 0 {
				ready = append(ready, id)
			}
		}
		if len(ready) == 0 {
			return nil, ErrCircularDependencies
		}
		for _, id := range ready {
			delete(remaining, id)
			order = append(order, id)
		}
		for id, deps := range remaining {
			kept := deps[:0]
			for _, d := range deps {
				if !contains(ready, d) {
					kept = append(kept, d)
				}
			}
			remaining[id] = kept
		}
	}
	return order, nil
}

func contains(ids []uuid.UUID, target uuid.UUID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
