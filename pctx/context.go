// SPDX-License-Identifier: GPL-3.0-or-later

package pctx

import (
	"fmt"
	"time"

	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"

	"github.com/dhcpforge/dhcpforge/packet"
)

// Context wraps one packet as it moves through the lifecycle: a unique
// identifier, a creation timestamp, the current [State], a read-only
// input packet, and an output packet freely mutated by hooks.
//
// P is the concrete packet type (e.g. [packet.DHCPv4]); PP witnesses
// that *P implements [packet.Type], per [packet.PacketPtr].
//
// Ownership: exclusively owned by a single per-packet task from
// creation to [Context.IntoOutput]; never shared across goroutines.
type Context[P any, PP packet.PacketPtr[P]] struct {
	id        uuid.UUID
	createdAt time.Time
	timeNow   func() time.Time

	state State

	input    P
	output   P
	consumed bool
}

// New creates a [Context] from a single input packet, in state
// [Received], with a freshly generated 128-bit random identifier and an
// output packet seeded to its empty value.
//
// timeNow is used for both the creation timestamp and [Context.Lifetime];
// pass nil to default to [time.Now] (tests may supply a fixed clock).
func New[P any, PP packet.PacketPtr[P]](input P, timeNow func() time.Time) *Context[P, PP] {
	if timeNow == nil {
		timeNow = time.Now
	}
	return &Context[P, PP]{
		id:        runtimex.PanicOnError1(uuid.NewRandom()),
		createdAt: timeNow(),
		timeNow:   timeNow,
		state:     Received,
		input:     input,
		output:    packet.Empty[P](),
	}
}

// ID returns the context's unique identifier.
func (c *Context[P, PP]) ID() uuid.UUID {
	return c.id
}

// State returns the current lifecycle state.
func (c *Context[P, PP]) State() State {
	return c.state
}

// SetState transitions the context to s. Called by [engine.ForwardingEngine]
// before each dispatch, and by [hook.Registry.RunHooks] on the
// transition to [Failure]; hooks never call it.
func (c *Context[P, PP]) SetState(s State) {
	c.state = s
}

// Input returns the read-only input packet.
func (c *Context[P, PP]) Input() P {
	return c.input
}

// Output returns a copy of the output packet as currently built.
func (c *Context[P, PP]) Output() P {
	return c.output
}

// OutputMut returns a mutable pointer to the output packet, for hooks
// to populate in place.
func (c *Context[P, PP]) OutputMut() PP {
	return PP(&c.output)
}

// Lifetime returns how long the context has existed: timeNow() minus
// its creation timestamp.
func (c *Context[P, PP]) Lifetime() time.Duration {
	return c.timeNow().Sub(c.createdAt)
}

// IntoOutput consumes the context and returns its output packet.
//
// Called exactly once per context, at the end of the lifecycle, by the
// code that drives that lifecycle (never by a hook). Calling it twice
// is a programmer error and panics, since it indicates the output was
// transmitted more than once or a hook is attempting to finalize a
// context it does not own.
func (c *Context[P, PP]) IntoOutput() P {
	if c.consumed {
		panic(fmt.Sprintf("pctx: IntoOutput called twice on context %s", c.id))
	}
	c.consumed = true
	return c.output
}
