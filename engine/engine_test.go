// SPDX-License-Identifier: GPL-3.0-or-later

package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhcpforge/dhcpforge/hook"
	"github.com/dhcpforge/dhcpforge/packet"
	"github.com/dhcpforge/dhcpforge/pctx"
	"github.com/dhcpforge/dhcpforge/service"
)

func TestRunAdvancesThroughEveryState(t *testing.T) {
	registry := hook.NewRegistry[packet.DHCPv4, *packet.DHCPv4]()
	var seen []pctx.State

	for _, state := range []pctx.State{pctx.Received, pctx.Prepared, pctx.PostPrepared} {
		state := state
		h := hook.New[packet.DHCPv4, *packet.DHCPv4]("mark", func(_ *service.Registry, ctx *pctx.Context[packet.DHCPv4, *packet.DHCPv4]) (int, error) {
			seen = append(seen, ctx.State())
			return 0, nil
		})
		registry.RegisterHook(state, h)
	}

	e := New(registry)
	ctx := pctx.New[packet.DHCPv4](packet.DHCPv4{}, nil)
	require.NoError(t, e.Run(ctx))
	require.Equal(t, []pctx.State{pctx.Received, pctx.Prepared, pctx.PostPrepared}, seen)
}

func TestRunStopsOnFatalFailure(t *testing.T) {
	registry := hook.NewRegistry[packet.DHCPv4, *packet.DHCPv4]()

	failer := hook.New[packet.DHCPv4, *packet.DHCPv4]("failer", func(_ *service.Registry, _ *pctx.Context[packet.DHCPv4, *packet.DHCPv4]) (int, error) {
		return -1, hook.NewError("boom")
	}, hook.Fatal)
	registry.RegisterHook(pctx.Received, failer)

	var postPreparedRan bool
	never := hook.New[packet.DHCPv4, *packet.DHCPv4]("never", func(_ *service.Registry, _ *pctx.Context[packet.DHCPv4, *packet.DHCPv4]) (int, error) {
		postPreparedRan = true
		return 0, nil
	})
	registry.RegisterHook(pctx.PostPrepared, never)

	e := New(registry)
	ctx := pctx.New[packet.DHCPv4](packet.DHCPv4{}, nil)
	err := e.Run(ctx)

	require.True(t, errors.Is(err, hook.ErrFatalHookFailed))
	require.False(t, postPreparedRan)
	require.Equal(t, pctx.Failure, ctx.State())
}
