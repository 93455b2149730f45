// SPDX-License-Identifier: GPL-3.0-or-later

// Package hook implements the dispatch engine's unit of pluggable
// behavior: a named closure with a dependency graph against other
// hooks' outcomes, collected per lifecycle state into a [Registry] that
// resolves execution order and runs a failure chain when a Fatal hook
// fails.
package hook

import (
	"slices"

	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"

	"github.com/dhcpforge/dhcpforge/packet"
	"github.com/dhcpforge/dhcpforge/pctx"
	"github.com/dhcpforge/dhcpforge/service"
)

// Exec is the closure signature a hook executes: given the shared
// service registry and the mutable context for the packet currently in
// dispatch, return a non-negative exit code on success or an error on
// failure.
type Exec[P any, PP packet.PacketPtr[P]] func(services *service.Registry, ctx *pctx.Context[P, PP]) (int, error)

// Hook is a named, uniquely identified unit of dispatch logic attached
// to one lifecycle state, with an ordered dependency set expressed
// against other hooks' outcomes.
type Hook[P any, PP packet.PacketPtr[P]] struct {
	id           uuid.UUID
	name         string
	flags        []Flag
	dependencies map[uuid.UUID]bool
	exec         Exec[P, PP]
}

// New creates a [Hook] with a freshly generated random identifier.
func New[P any, PP packet.PacketPtr[P]](name string, exec Exec[P, PP], flags ...Flag) *Hook[P, PP] {
	return &Hook[P, PP]{
		id:           runtimex.PanicOnError1(uuid.NewRandom()),
		name:         name,
		flags:        flags,
		dependencies: make(map[uuid.UUID]bool),
		exec:         exec,
	}
}

// ID returns the hook's unique identifier.
func (h *Hook[P, PP]) ID() uuid.UUID {
	return h.id
}

// Name returns the hook's display name.
func (h *Hook[P, PP]) Name() string {
	return h.name
}

// Flags returns the hook's flag set.
func (h *Hook[P, PP]) Flags() []Flag {
	return h.flags
}

// AddFlag appends a flag to the hook's flag set.
func (h *Hook[P, PP]) AddFlag(f Flag) {
	h.flags = append(h.flags, f)
}

// HasFlag reports whether f is present in the hook's flag set.
func (h *Hook[P, PP]) HasFlag(f Flag) bool {
	return slices.Contains(h.flags, f)
}

// Dependencies returns the hook's dependency map: other hook id to
// required outcome polarity (true requires success, false requires
// failure).
func (h *Hook[P, PP]) Dependencies() map[uuid.UUID]bool {
	return h.dependencies
}

// RequireSuccess records that this hook only runs if other exited
// successfully.
func (h *Hook[P, PP]) RequireSuccess(other uuid.UUID) {
	h.dependencies[other] = true
}

// RequireFailure records that this hook only runs if other exited with
// failure.
func (h *Hook[P, PP]) RequireFailure(other uuid.UUID) {
	h.dependencies[other] = false
}
