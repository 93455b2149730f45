// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import "errors"

// ErrAlreadyPresent is returned by DataPool.Insert when an entity with
// the same id is already stored.
var ErrAlreadyPresent = errors.New("storage: entity already present")

// ErrUnknownID is returned when an id is absent from both the global
// index and, for RuntimeStorage.Get, every pool it could plausibly
// live in.
var ErrUnknownID = errors.New("storage: unknown id")

// ErrUnknownPool is returned when an operation names a pool that was
// never registered via RuntimeStorage.AddPool.
var ErrUnknownPool = errors.New("storage: unknown pool")

// ErrIDSpaceExhausted is returned by the unique id allocator when no
// unused id could be drawn within its retry budget. spec.md §9 leaves
// the original's unbounded redraw loop as a design note; this port
// bounds it instead of spinning forever near saturation.
var ErrIDSpaceExhausted = errors.New("storage: id space exhausted, too many collisions")
