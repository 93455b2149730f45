// SPDX-License-Identifier: GPL-3.0-or-later

// Package ddns is an example hook demonstrating that DHCP policy,
// including side effects like dynamic DNS registration, lives entirely
// in hooks the engine knows nothing about.
//
// Grounded on the free-function hook-registration shape of
// original_source's hooks/prepared_hooks.rs, with the DNS behavior
// itself modeled on ISC dhcpd's DDNS updates (a feature the
// distillation this module is built from dropped).
package ddns

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/miekg/dns"

	"github.com/dhcpforge/dhcpforge/hook"
	"github.com/dhcpforge/dhcpforge/packet"
	"github.com/dhcpforge/dhcpforge/pctx"
	"github.com/dhcpforge/dhcpforge/service"
)

// Updater performs one DNS exchange, the subset of *dns.Client's
// surface this hook needs. Narrow and injectable so tests never open a
// real socket, matching the teacher's pattern of small collaborator
// interfaces around miekg/dns.
type Updater interface {
	Exchange(m *dns.Msg, addr string) (*dns.Msg, time.Duration, error)
}

// Config configures New.
type Config struct {
	// Zone is the DNS zone the UPDATE targets, e.g. "lan.example.com.".
	Zone string
	// ServerAddr is the authoritative name server's "host:port".
	ServerAddr string
	// TTL is the A record's time-to-live in seconds.
	TTL uint32
	// Updater performs the exchange; nil defaults to a plain *dns.Client.
	Updater Updater
}

// New builds a non-Fatal hook that, once its dependsOn hook succeeds
// (the caller's own policy hook, which must have set Yiaddr/Chaddr on
// the output packet), issues an RFC 2136 DNS UPDATE adding an A record
// binding a hostname derived from the hardware address to the leased
// IPv4 address.
//
// Per spec.md §4.12 this hook is registered by the caller against
// [pctx.PostPrepared], not by any core package.
func New(cfg Config, dependsOn uuid.UUID) *hook.Hook[packet.DHCPv4, *packet.DHCPv4] {
	updater := cfg.Updater
	if updater == nil {
		updater = new(dns.Client)
	}

	h := hook.New[packet.DHCPv4, *packet.DHCPv4]("ddns-update", func(_ *service.Registry, ctx *pctx.Context[packet.DHCPv4, *packet.DHCPv4]) (int, error) {
		out := ctx.Output()
		ip := net.IPv4(out.Yiaddr[0], out.Yiaddr[1], out.Yiaddr[2], out.Yiaddr[3])
		fqdn := fqdnFor(out.Chaddr, cfg.Zone)

		rr, err := dns.NewRR(fmt.Sprintf("%s %d IN A %s", fqdn, cfg.TTL, ip))
		if err != nil {
			return -1, fmt.Errorf("ddns: build A record: %w", err)
		}

		msg := new(dns.Msg)
		msg.SetUpdate(dns.Fqdn(cfg.Zone))
		msg.Insert([]dns.RR{rr})

		if _, _, err := updater.Exchange(msg, cfg.ServerAddr); err != nil {
			return -1, fmt.Errorf("ddns: exchange update: %w", err)
		}
		return 0, nil
	})
	h.RequireSuccess(dependsOn)
	return h
}

// fqdnFor derives a hostname from a hardware address, since a raw
// chaddr carries no name of its own: "host-aabbccddeeff.zone.".
func fqdnFor(addr packet.HardwareAddress, zone string) string {
	label := strings.ToLower(strings.ReplaceAll(addr.String(), ":", ""))
	return dns.Fqdn(fmt.Sprintf("host-%s.%s", label, zone))
}
