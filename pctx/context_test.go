// SPDX-License-Identifier: GPL-3.0-or-later

package pctx

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dhcpforge/dhcpforge/packet"
)

func TestNewSeedsEmptyOutputAndReceivedState(t *testing.T) {
	input := &packet.DHCPv4{Op: 1}
	ctx := New[packet.DHCPv4](*input, nil)

	require.Equal(t, Received, ctx.State())
	require.Equal(t, packet.DHCPv4{}, ctx.Output())
	require.NotEqual(t, uuid.Nil, ctx.ID())
}

func TestSetStateTransitions(t *testing.T) {
	ctx := New[packet.DHCPv4](packet.DHCPv4{}, nil)
	ctx.SetState(Prepared)
	require.Equal(t, Prepared, ctx.State())
}

func TestOutputMutMutatesInPlace(t *testing.T) {
	ctx := New[packet.DHCPv4](packet.DHCPv4{}, nil)
	ctx.OutputMut().Xid = 42
	require.Equal(t, uint32(42), ctx.Output().Xid)
}

func TestLifetimeUsesInjectedClock(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := t0
	ctx := New[packet.DHCPv4](packet.DHCPv4{}, func() time.Time { return clock })
	clock = t0.Add(5 * time.Second)
	require.Equal(t, 5*time.Second, ctx.Lifetime())
}

func TestIntoOutputPanicsOnSecondCall(t *testing.T) {
	ctx := New[packet.DHCPv4](packet.DHCPv4{}, nil)
	ctx.IntoOutput()
	require.Panics(t, func() { ctx.IntoOutput() })
}

func TestIntoOutputReturnsFinalOutput(t *testing.T) {
	ctx := New[packet.DHCPv4](packet.DHCPv4{}, nil)
	ctx.OutputMut().Xid = 7
	out := ctx.IntoOutput()
	require.Equal(t, uint32(7), out.Xid)
}
