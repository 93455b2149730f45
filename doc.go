// SPDX-License-Identifier: GPL-3.0-or-later

// Package dhcpforge implements the core of a DHCPv4 server: a
// composable pipeline that receives a request, runs it through a
// registry of ordered hooks, and sends a reply, backed by a durable
// lease store.
//
// # Core Abstraction
//
// The pipeline is built around three layers, each usable on its own:
//
//   - [packet]: the wire types ([packet.DHCPv4]) and the [packet.Type]
//     contract (Parse/Serialize) a transport needs.
//   - [pctx]: [pctx.Context], the per-request state machine carrying an
//     input packet, a mutable output packet, and the current
//     [pctx.State] (Received, Prepared, PostPrepared, Failure) through
//     a request's lifecycle.
//   - [hook]: [hook.Hook] and [hook.Registry] — named, dependency-ordered
//     units of policy run against a [pctx.Context] at a given state.
//
// [engine] drives one context through every eligible hook at every
// state in order; [switcher] drives the accept loop around the engine,
// binding an [ioport.Input], an [ioport.Output], and a
// [switcher.KillSwitch].
//
// # Storage
//
// [storage] provides a two-tier store: an in-memory [storage.DataPool]
// per entity collection, multiplexed by [storage.RuntimeStorage] behind
// a single global id space, backed by a pluggable [storage.DBManager]
// (concretely [storage.PgxManager], over pgx/v5). [leases.LeaseV4] is
// the one entity this module defines: a pure data fixture binding an
// IPv4 address to a hardware address until expiration, with no
// allocation policy of its own — allocation, renewal, and expiry are
// hook concerns.
//
// # Hooks
//
// [hooks/ddns] is a worked example of a policy hook: given a dependency
// it requires to have already succeeded, it issues a DNS UPDATE binding
// a synthesized hostname to the lease's address via an injectable
// [hooks/ddns.Updater]. Deployments assemble their own [hook.Registry]
// from hooks like this one and pass it to [NewServer]; this package
// registers none on a caller's behalf.
//
// # Observability
//
// Structured logging follows the teacher's split of a small interface
// ([SLogger]) a caller can implement however it likes, from a concrete
// [*slog.Logger] the I/O and switcher packages drive directly —
// [NewServer] bridges the two, passing a [*slog.Logger] straight
// through when that is what [Config.Logger] actually holds, or else a
// discarding logger, since [ioport] and [switcher] depend on the
// concrete type to avoid importing this package back. Error
// classification is configurable via [ErrClassifier]; by default,
// [DefaultErrClassifier] wires [errclass.New].
//
// # Lifecycle
//
// [NewServer] connects to the database, registers and loads the lease
// pool, binds the UDP ports, and assembles a [switcher.StateSwitcher].
// [Server.Start] runs the accept loop in the background;
// [Server.Shutdown] clears the kill switch, waits for in-flight
// packets to drain, and releases every socket and the database pool.
// [Server.Sync] runs one lease synchronization pass on demand; callers
// that want periodic sync should drive it from their own ticker.
//
// # Design Boundaries
//
// This package assembles primitives; it does not decide DHCP policy.
// Address allocation, lease renewal, option construction, and dynamic
// DNS are all hook concerns, left to the [hook.Registry] a deployment
// supplies.
package dhcpforge
