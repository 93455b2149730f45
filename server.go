// SPDX-License-Identifier: GPL-3.0-or-later

package dhcpforge

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dhcpforge/dhcpforge/errclass"
	"github.com/dhcpforge/dhcpforge/hook"
	"github.com/dhcpforge/dhcpforge/ioport"
	"github.com/dhcpforge/dhcpforge/leases"
	"github.com/dhcpforge/dhcpforge/packet"
	"github.com/dhcpforge/dhcpforge/storage"
	"github.com/dhcpforge/dhcpforge/switcher"
)

// leasePoolName is the storage pool dhcpforge registers for
// [leases.LeaseV4] records.
const leasePoolName = "lease"

// Server assembles a [hook.Registry], a [storage.RuntimeStorage] of
// [leases.LeaseV4], UDP [ioport] input/output, and a
// [switcher.StateSwitcher] from a [Config], per spec.md §4.13.
type Server struct {
	cfg      *Config
	registry *hook.Registry[packet.DHCPv4, *packet.DHCPv4]
	db       storage.DBManager
	storage  *storage.RuntimeStorage[*leases.LeaseV4]
	in       *ioport.UDPInput[packet.DHCPv4, *packet.DHCPv4]
	out      *ioport.UDPOutput[packet.DHCPv4, *packet.DHCPv4]
	switcher *switcher.StateSwitcher[packet.DHCPv4, *packet.DHCPv4]
}

// slogLoggerFrom unwraps a [SLogger] into the concrete [*slog.Logger]
// the ioport/switcher packages require. A [*slog.Logger] already
// satisfies SLogger (same Debug/Info signatures), so the common case —
// a caller passing one straight through — is a plain type assertion;
// any other implementation falls back to a discarding logger, since
// those packages' constructors take the concrete type, not SLogger.
func slogLoggerFrom(l SLogger) *slog.Logger {
	if sl, ok := l.(*slog.Logger); ok {
		return sl
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewServer connects to the database, loads any persisted leases,
// binds the UDP input/output ports, and wires a [switcher.StateSwitcher]
// around registry. registry should already carry every hook the
// deployment wants dispatched; NewServer registers none of its own.
func NewServer(ctx context.Context, cfg *Config, registry *hook.Registry[packet.DHCPv4, *packet.DHCPv4]) (*Server, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	logger := slogLoggerFrom(cfg.Logger)

	db, err := storage.NewPgxManager(ctx, storage.PoolConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
	})
	if err != nil {
		return nil, fmt.Errorf("dhcpforge: connect database: %w", err)
	}

	rs := storage.NewRuntimeStorage[*leases.LeaseV4](db, cfg.IDBits, logger)
	pool := storage.NewDataPool[*leases.LeaseV4](leasePoolName, leases.Schema)
	if err := rs.AddPool(ctx, pool, leases.Scan); err != nil {
		db.Close()
		return nil, fmt.Errorf("dhcpforge: register lease pool: %w", err)
	}
	if err := rs.Load(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("dhcpforge: load leases: %w", err)
	}

	classify := ioport.Classifier(errclass.New)
	if cfg.ErrClassifier != nil {
		classify = cfg.ErrClassifier.Classify
	}

	in, err := ioport.NewUDPInput[packet.DHCPv4, *packet.DHCPv4](ctx, cfg.InputAddr, logger, classify)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("dhcpforge: bind input: %w", err)
	}

	out, err := ioport.NewUDPOutput[packet.DHCPv4, *packet.DHCPv4](ctx, cfg.OutputAddr, cfg.BroadcastAddr, logger, classify)
	if err != nil {
		_ = in.Close()
		db.Close()
		return nil, fmt.Errorf("dhcpforge: bind output: %w", err)
	}

	sw := switcher.New[packet.DHCPv4, *packet.DHCPv4](in, out, registry, cfg.KillSwitch, cfg.MaxInFlight, cfg.TimeNow, logger)

	return &Server{
		cfg:      cfg,
		registry: registry,
		db:       db,
		storage:  rs,
		in:       in,
		out:      out,
		switcher: sw,
	}, nil
}

// Storage returns the server's lease store, so callers can register
// additional pools, inspect leases, or trigger an out-of-band [Sync].
func (s *Server) Storage() *storage.RuntimeStorage[*leases.LeaseV4] {
	return s.storage
}

// Start runs the accept loop in its own goroutine and returns
// immediately. Call [Server.Shutdown] to stop it.
func (s *Server) Start(ctx context.Context) {
	go s.switcher.Run(ctx)
}

// Sync runs one synchronization pass against the backend, per
// spec.md §4.9.1. Callers typically drive this from a ticker.
func (s *Server) Sync(ctx context.Context) {
	s.storage.Sync(ctx)
}

// Shutdown flips the kill switch and waits, bounded by ctx, for every
// in-flight packet task to drain, then releases the UDP sockets and
// the database pool.
//
// Grounded on spec.md §9's "Graceful shutdown" design note: the
// task-join barrier lives in [switcher.StateSwitcher.Shutdown]; this
// method adds closing the I/O ports and the database pool around it.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.switcher.Shutdown(ctx)
	_ = s.in.Close()
	_ = s.out.Close()
	s.db.Close()
	return err
}
