//go:build unix

// SPDX-License-Identifier: GPL-3.0-or-later

package ioport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhcpforge/dhcpforge/packet"
)

func TestUDPInputOutputRoundTrip(t *testing.T) {
	ctx := context.Background()

	in, err := NewUDPInput[packet.DHCPv4](ctx, "127.0.0.1:0", nil, nil)
	require.NoError(t, err)
	defer in.Close()

	out, err := NewUDPOutput[packet.DHCPv4](ctx, "127.0.0.1:0", in.Addr().String(), nil, nil)
	require.NoError(t, err)
	defer out.Close()

	sent := packet.DHCPv4{Op: 2, Htype: 1, Hlen: 6, Xid: 123}
	sendCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	n, err := out.Send(sendCtx, sent)
	require.NoError(t, err)
	require.Greater(t, n, 0)

	recvCtx, cancel2 := context.WithTimeout(ctx, 2*time.Second)
	defer cancel2()
	got, err := in.Get(recvCtx)
	require.NoError(t, err)
	require.Equal(t, sent.Op, got.Op)
	require.Equal(t, sent.Xid, got.Xid)
}

func TestUDPInputGetRespectsContextDeadline(t *testing.T) {
	ctx := context.Background()
	in, err := NewUDPInput[packet.DHCPv4](ctx, "127.0.0.1:0", nil, nil)
	require.NoError(t, err)
	defer in.Close()

	getCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = in.Get(getCtx)
	require.Error(t, err)
}
