// SPDX-License-Identifier: GPL-3.0-or-later

// Package ioport defines the abstract packet sources and sinks the
// state switcher pulls from and pushes to, plus a concrete UDP
// transport on sockets with SO_REUSEADDR and SO_BROADCAST set, whose
// input reads through [golang.org/x/net/ipv4] to learn each datagram's
// arrival interface.
package ioport

import (
	"context"

	"github.com/dhcpforge/dhcpforge/packet"
)

// Input is an asynchronous source of packets of type T.
type Input[T any, TP packet.PacketPtr[T]] interface {
	// Get blocks until the next packet arrives, ctx is canceled, or an
	// I/O error occurs.
	Get(ctx context.Context) (T, error)
}

// Output is an asynchronous sink of packets of type T.
type Output[T any, TP packet.PacketPtr[T]] interface {
	// Send transmits pkt and returns the number of bytes written.
	Send(ctx context.Context, pkt T) (int, error)
}
