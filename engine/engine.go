// SPDX-License-Identifier: GPL-3.0-or-later

// Package engine implements the packet-forwarding engine: the driver
// that advances one packet context through every normal (non-Failure)
// lifecycle state, invoking the hook registry at each.
package engine

import (
	"github.com/dhcpforge/dhcpforge/hook"
	"github.com/dhcpforge/dhcpforge/packet"
	"github.com/dhcpforge/dhcpforge/pctx"
)

// ForwardingEngine drives a [pctx.Context] through every non-Failure
// lifecycle state in declaration order, calling the hook registry at
// each. If a state's dispatch returns [hook.ErrFatalHookFailed], the
// engine stops iterating immediately — the failure chain has already
// run by the time that error surfaces.
type ForwardingEngine[P any, PP packet.PacketPtr[P]] struct {
	registry *hook.Registry[P, PP]
}

// New returns a [ForwardingEngine] driven by registry.
func New[P any, PP packet.PacketPtr[P]](registry *hook.Registry[P, PP]) *ForwardingEngine[P, PP] {
	return &ForwardingEngine[P, PP]{registry: registry}
}

// Run advances ctx through [pctx.States] in order. Returns nil if every
// state dispatched successfully (including states with no hooks
// registered), or the error from the first state that failed.
func (e *ForwardingEngine[P, PP]) Run(ctx *pctx.Context[P, PP]) error {
	for _, state := range pctx.States() {
		ctx.SetState(state)
		if err := e.registry.RunHooks(ctx); err != nil {
			return err
		}
	}
	return nil
}
