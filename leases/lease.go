// SPDX-License-Identifier: GPL-3.0-or-later

// Package leases holds the DHCPv4 lease record: a pure data fixture
// exercising the [storage] tier, with no allocation or expiry policy
// of its own.
//
// Grounded on original_source's core/leases.rs LeaseV4.
package leases

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dhcpforge/dhcpforge/packet"
	"github.com/dhcpforge/dhcpforge/pctx"
)

// LeaseV4 binds an IPv4 address to a hardware address until Expiration.
//
// Grounded on original_source's LeaseV4 { ip_address, expiration,
// hardware_address }, with a uid field added so it satisfies
// [storage.Entity] (the Rust original had no storage-identity field of
// its own; its table's primary key was the ip address).
type LeaseV4 struct {
	uid             uint64
	IPAddress       [4]byte
	Expiration      time.Time
	HardwareAddress packet.HardwareAddress
}

// New builds a LeaseV4 from the output packet carried by ctx — yiaddr
// becomes the leased address, chaddr the hardware address — expiring
// duration after now.
//
// Grounded on original_source's LeaseV4::new(context, duration), which
// read context.output_packet.yiaddr/chadd and stamped
// Utc::now() + duration.
func New(ctx *pctx.Context[packet.DHCPv4, *packet.DHCPv4], duration time.Duration, now func() time.Time) *LeaseV4 {
	if now == nil {
		now = time.Now
	}
	out := ctx.Output()
	return &LeaseV4{
		IPAddress:       out.Yiaddr,
		Expiration:      now().Add(duration),
		HardwareAddress: out.Chaddr,
	}
}

// Addr renders IPAddress as a [net.IP].
func (l *LeaseV4) Addr() net.IP {
	return net.IPv4(l.IPAddress[0], l.IPAddress[1], l.IPAddress[2], l.IPAddress[3])
}

// Expired reports whether the lease's expiration is before now.
func (l *LeaseV4) Expired(now time.Time) bool {
	return now.After(l.Expiration)
}

// ID implements [storage.Entity].
func (l *LeaseV4) ID() uint64 {
	return l.uid
}

// SetUID implements [storage.Entity].
func (l *LeaseV4) SetUID(id uint64) {
	l.uid = id
}

// Value implements [storage.Entity]: a named-argument binding matching
// InsertStatement's placeholders.
func (l *LeaseV4) Value() map[string]any {
	return map[string]any{
		"id":         l.uid,
		"ip_address": l.Addr().String(),
		"expiration": l.Expiration,
		"hw_address": l.HardwareAddress.String(),
	}
}

// InsertStatement implements [storage.Entity].
func (l *LeaseV4) InsertStatement(table string) string {
	return fmt.Sprintf(
		"INSERT INTO %s (id, ip_address, expiration, hw_address) VALUES (@id, @ip_address, @expiration, @hw_address)",
		table,
	)
}

// Schema is the SQL fragment passed to storage.RuntimeStorage.AddPool
// for a pool of leases.
const Schema = "(id BIGINT PRIMARY KEY, ip_address TEXT NOT NULL, expiration TIMESTAMPTZ NOT NULL, hw_address TEXT NOT NULL)"

// Scan decodes one row of a pool created with [Schema] back into a
// LeaseV4, matching storage.Scanner[*LeaseV4]'s signature so it can be
// passed directly to storage.RuntimeStorage.AddPool.
func Scan(row pgx.Rows) (*LeaseV4, error) {
	var id uint64
	var ipText, hwText string
	var expiration time.Time
	if err := row.Scan(&id, &ipText, &expiration, &hwText); err != nil {
		return nil, fmt.Errorf("leases: scan row: %w", err)
	}

	ip := net.ParseIP(ipText).To4()
	if ip == nil {
		return nil, fmt.Errorf("leases: invalid stored ip address %q", ipText)
	}
	raw, err := parseHexOctets(hwText)
	if err != nil {
		return nil, err
	}

	lease := &LeaseV4{
		IPAddress:       [4]byte{ip[0], ip[1], ip[2], ip[3]},
		Expiration:      expiration,
		HardwareAddress: packet.ParseHardwareAddress(raw),
	}
	lease.SetUID(id)
	return lease, nil
}

// parseHexOctets parses a ':'-separated hex string, as rendered by
// [packet.HardwareAddress.String], back into the 16-byte wire form,
// zero-padding any trailing octets not present in the string.
func parseHexOctets(s string) ([16]byte, error) {
	var raw [16]byte
	parts := strings.Split(s, ":")
	if len(parts) > len(raw) {
		return raw, fmt.Errorf("leases: hardware address %q has too many octets", s)
	}
	for i, part := range parts {
		b, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return raw, fmt.Errorf("leases: invalid hardware address %q: %w", s, err)
		}
		raw[i] = byte(b)
	}
	return raw, nil
}
