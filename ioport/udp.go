//go:build unix

// SPDX-License-Identifier: GPL-3.0-or-later

package ioport

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"syscall"
	"time"

	"golang.org/x/net/ipv4"

	"github.com/bassosimone/safeconn"

	"github.com/dhcpforge/dhcpforge/errclass"
	"github.com/dhcpforge/dhcpforge/packet"
)

const maxDatagramSize = 65535

// Classifier labels an error with a short, stable category (e.g.
// "ETIMEDOUT") for structured logging. Callers typically pass
// [errclass.New] directly, or an adapter around a richer classifier
// such as the root package's ErrClassifier.
type Classifier func(err error) string

// listenUDP binds addr with SO_REUSEADDR and SO_BROADCAST set, so
// multiple listeners can share a port (one per interface, the common
// multi-homed DHCP server layout) and replies can reach clients that
// have no address yet.
func listenUDP(ctx context.Context, addr string) (*net.UDPConn, error) {
	cfg := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var controlErr error
			err := c.Control(func(fd uintptr) {
				if err := syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1); err != nil {
					controlErr = fmt.Errorf("ioport: SO_REUSEADDR: %w", err)
					return
				}
				if err := syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_BROADCAST, 1); err != nil {
					controlErr = fmt.Errorf("ioport: SO_BROADCAST: %w", err)
				}
			})
			if err != nil {
				return err
			}
			return controlErr
		},
	}
	conn, err := cfg.ListenPacket(ctx, "udp4", addr)
	if err != nil {
		return nil, err
	}
	return conn.(*net.UDPConn), nil
}

// UDPInput is an [Input] backed by a UDP socket, parsing each received
// datagram via T's [packet.Type] contract.
type UDPInput[T any, TP packet.PacketPtr[T]] struct {
	conn     *net.UDPConn
	pc       *ipv4.PacketConn
	logger   *slog.Logger
	classify Classifier
}

var _ Input[packet.DHCPv4, *packet.DHCPv4] = (*UDPInput[packet.DHCPv4, *packet.DHCPv4])(nil)

// NewUDPInput binds addr and returns a ready [*UDPInput]. Pass a nil
// logger to use [slog.Default], and a nil classify to use
// [errclass.New].
func NewUDPInput[T any, TP packet.PacketPtr[T]](ctx context.Context, addr string, logger *slog.Logger, classify Classifier) (*UDPInput[T, TP], error) {
	if logger == nil {
		logger = slog.Default()
	}
	if classify == nil {
		classify = errclass.New
	}
	conn, err := listenUDP(ctx, addr)
	if err != nil {
		return nil, err
	}
	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetControlMessage(ipv4.FlagInterface, true); err != nil {
		logger.Debug("ioport: interface control messages unavailable", slog.Any("err", err))
	}
	return &UDPInput[T, TP]{conn: conn, pc: pc, logger: logger, classify: classify}, nil
}

// Get implements [Input].
func (in *UDPInput[T, TP]) Get(ctx context.Context) (T, error) {
	var zero T
	deadline, _ := ctx.Deadline() // zero value clears any earlier deadline
	_ = in.conn.SetReadDeadline(deadline)
	stop := context.AfterFunc(ctx, func() {
		_ = in.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, maxDatagramSize)
	n, cm, src, err := in.pc.ReadFrom(buf)
	if err != nil {
		in.logger.Debug("ioport: read failed",
			slog.String("localAddr", safeconn.LocalAddr(in.conn)),
			slog.String("errClass", in.classify(err)),
			slog.Any("err", err))
		return zero, err
	}

	pkt := packet.Empty[T]()
	if err := TP(&pkt).Parse(buf[:n]); err != nil {
		return zero, fmt.Errorf("ioport: parse: %w", err)
	}

	ifIndex := -1
	if cm != nil {
		ifIndex = cm.IfIndex
	}
	in.logger.Debug("ioport: datagram received",
		slog.Int("bytes", n),
		slog.String("srcAddr", src.String()),
		slog.Int("ifIndex", ifIndex))
	return pkt, nil
}

// Close releases the underlying socket.
func (in *UDPInput[T, TP]) Close() error {
	return in.conn.Close()
}

// Addr returns the socket's bound local address, useful when addr was
// given as ":0" and the OS assigned the port.
func (in *UDPInput[T, TP]) Addr() net.Addr {
	return in.conn.LocalAddr()
}

// UDPOutput is an [Output] backed by a UDP socket with SO_BROADCAST
// set, sending every packet to a fixed destination (typically the
// limited broadcast address, 255.255.255.255:68, for replies to
// clients that have no address yet). Selecting a unicast destination
// per reply (per RFC 2131 §4.1's giaddr/ciaddr/broadcast-flag rules) is
// DHCP response-routing policy, out of scope for this port — a hook
// wanting unicast delivery should use its own transport.
type UDPOutput[T any, TP packet.PacketPtr[T]] struct {
	conn     *net.UDPConn
	dst      *net.UDPAddr
	logger   *slog.Logger
	classify Classifier
}

var _ Output[packet.DHCPv4, *packet.DHCPv4] = (*UDPOutput[packet.DHCPv4, *packet.DHCPv4])(nil)

// NewUDPOutput binds addr and configures dst as the fixed broadcast
// destination for every [UDPOutput.Send]. Pass a nil logger to use
// [slog.Default], and a nil classify to use [errclass.New].
func NewUDPOutput[T any, TP packet.PacketPtr[T]](ctx context.Context, addr, dst string, logger *slog.Logger, classify Classifier) (*UDPOutput[T, TP], error) {
	if logger == nil {
		logger = slog.Default()
	}
	if classify == nil {
		classify = errclass.New
	}
	conn, err := listenUDP(ctx, addr)
	if err != nil {
		return nil, err
	}
	dstAddr, err := net.ResolveUDPAddr("udp4", dst)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ioport: resolve destination: %w", err)
	}
	return &UDPOutput[T, TP]{conn: conn, dst: dstAddr, logger: logger, classify: classify}, nil
}

// Send implements [Output].
func (out *UDPOutput[T, TP]) Send(ctx context.Context, pkt T) (int, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = out.conn.SetWriteDeadline(deadline)
	}
	raw := TP(&pkt).Serialize()
	n, err := out.conn.WriteToUDP(raw, out.dst)
	out.logger.Debug("ioport: datagram sent",
		slog.Int("bytes", n),
		slog.String("dstAddr", out.dst.String()),
		slog.String("localAddr", safeconn.LocalAddr(out.conn)),
		slog.String("errClass", out.classify(err)),
		slog.Any("err", err))
	return n, err
}

// Close releases the underlying socket.
func (out *UDPOutput[T, TP]) Close() error {
	return out.conn.Close()
}
