// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
)

// maxIDAllocAttempts bounds the unique-id redraw loop. spec.md §9
// leaves exhaustion probability as a function of the chosen width and
// asks implementers to expose the width as a config knob; this port
// additionally bounds the redraw loop itself rather than spinning
// forever once the space is nearly saturated.
const maxIDAllocAttempts = 64

// Scanner decodes one pgx.Rows row into an entity. Callers supply one
// per pool at [RuntimeStorage.AddPool] time, since Go's generics
// cannot synthesize a row-to-struct decoder the way original_source's
// `V : FromRow` trait bound did.
type Scanner[E Entity] func(row pgx.Rows) (E, error)

type registeredPool[E Entity] struct {
	pool    *DataPool[E]
	scanner Scanner[E]
}

// RuntimeStorage multiplexes named [DataPool]s behind one global
// id → pool-name index, so ids stay unique across every pool it
// manages, and drives a [DBManager] backend for the durable tier.
//
// Grounded on original_source's RuntimeStorage<V>, split per
// spec.md §4.9 from a single-table design into a multi-pool one: the
// Rust original held exactly one table name and one in-memory map;
// here each named pool gets its own DataPool, and the global index
// replaces its implicit single-table identity.
//
// Locking follows spec.md §5: mapMu guards only the pools map's
// structure (which names exist), idMu guards only the id → pool-name
// index, and each [DataPool] guards its own entries with its own
// mutex. Neither mapMu nor idMu is ever held across a [DBManager] call
// — I/O for one pool's sync pass must never block reads or writes
// against a different pool.
type RuntimeStorage[E Entity] struct {
	mapMu sync.RWMutex
	db    DBManager
	pools map[string]*registeredPool[E]

	idMu    sync.Mutex
	idIndex map[uint64]string

	idBits int
	logger *slog.Logger
}

// NewRuntimeStorage returns a RuntimeStorage backed by db, allocating
// ids in the range covered by idBits (clamped to [1, 63]; 32 is used
// if idBits is not positive). Pass a nil logger to use slog.Default.
func NewRuntimeStorage[E Entity](db DBManager, idBits int, logger *slog.Logger) *RuntimeStorage[E] {
	if idBits <= 0 {
		idBits = 32
	}
	if idBits > 63 {
		idBits = 63
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RuntimeStorage[E]{
		db:      db,
		pools:   make(map[string]*registeredPool[E]),
		idIndex: make(map[uint64]string),
		idBits:  idBits,
		logger:  logger,
	}
}

// AddPool registers pool under its own name and issues CREATE TABLE IF
// NOT EXISTS against the backend using the pool's schema fragment.
// scan decodes rows read back from that table for Load and
// GetFromDisk. The CREATE TABLE call runs before mapMu is taken, so it
// never blocks traffic against already-registered pools.
func (rs *RuntimeStorage[E]) AddPool(ctx context.Context, pool *DataPool[E], scan Scanner[E]) error {
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s %s", pool.Name(), pool.Schema())
	if _, err := rs.db.Exec(ctx, stmt, pgx.NamedArgs{}); err != nil {
		return fmt.Errorf("storage: create table for pool %q: %w", pool.Name(), err)
	}

	rs.mapMu.Lock()
	rs.pools[pool.Name()] = &registeredPool[E]{pool: pool, scanner: scan}
	rs.mapMu.Unlock()
	return nil
}

// lookupPool returns the registered pool for name, if any, under a
// brief read lock on mapMu.
func (rs *RuntimeStorage[E]) lookupPool(name string) (*registeredPool[E], bool) {
	rs.mapMu.RLock()
	defer rs.mapMu.RUnlock()
	rp, ok := rs.pools[name]
	return rp, ok
}

// poolNamesSnapshot returns the name of every registered pool, so
// callers can iterate pools without holding mapMu across per-pool I/O.
func (rs *RuntimeStorage[E]) poolNamesSnapshot() []string {
	rs.mapMu.RLock()
	defer rs.mapMu.RUnlock()
	names := make([]string, 0, len(rs.pools))
	for name := range rs.pools {
		names = append(names, name)
	}
	return names
}

// allocateID draws a uniform random id not already present in the
// global index, within maxIDAllocAttempts redraws.
func (rs *RuntimeStorage[E]) allocateID() (uint64, error) {
	mask := uint64(1)<<uint(rs.idBits) - 1
	var buf [8]byte

	rs.idMu.Lock()
	defer rs.idMu.Unlock()

	for attempt := 0; attempt < maxIDAllocAttempts; attempt++ {
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("storage: draw random id: %w", err)
		}
		id := binary.BigEndian.Uint64(buf[:]) & mask
		if id == 0 {
			continue // reserve 0 as "unset" per Entity.ID's zero-value contract
		}
		if _, taken := rs.idIndex[id]; !taken {
			rs.idIndex[id] = "" // reserve immediately; caller fills in the real pool name
			return id, nil
		}
	}
	return 0, ErrIDSpaceExhausted
}

// Store allocates an unused id, assigns it to entity via SetUID,
// records it in the global index under poolName, and inserts it into
// that pool.
func (rs *RuntimeStorage[E]) Store(entity E, poolName string) (uint64, error) {
	rp, ok := rs.lookupPool(poolName)
	if !ok {
		return 0, ErrUnknownPool
	}

	id, err := rs.allocateID()
	if err != nil {
		return 0, err
	}

	entity.SetUID(id)
	if _, err := rp.pool.Insert(entity); err != nil {
		rs.idMu.Lock()
		delete(rs.idIndex, id)
		rs.idMu.Unlock()
		return 0, err
	}

	rs.idMu.Lock()
	rs.idIndex[id] = poolName
	rs.idMu.Unlock()
	return id, nil
}

// Get resolves id via the global index and returns the in-memory
// entity from its owning pool.
func (rs *RuntimeStorage[E]) Get(id uint64) (E, error) {
	var zero E

	rs.idMu.Lock()
	poolName, ok := rs.idIndex[id]
	rs.idMu.Unlock()
	if !ok {
		return zero, ErrUnknownID
	}

	rp, ok := rs.lookupPool(poolName)
	if !ok {
		return zero, ErrUnknownPool
	}
	entity, ok := rp.pool.Get(id)
	if !ok {
		return zero, ErrUnknownID
	}
	return entity, nil
}

// GetFromDisk resolves id via the global index and reads the row back
// from the backend, bypassing the in-memory copy.
func (rs *RuntimeStorage[E]) GetFromDisk(ctx context.Context, id uint64) (E, error) {
	var zero E

	rs.idMu.Lock()
	poolName, ok := rs.idIndex[id]
	rs.idMu.Unlock()
	if !ok {
		return zero, ErrUnknownID
	}

	rp, ok := rs.lookupPool(poolName)
	if !ok {
		return zero, ErrUnknownPool
	}

	stmt := fmt.Sprintf("SELECT * FROM %s WHERE id = @id", poolName)
	rows, err := rs.db.Query(ctx, stmt, pgx.NamedArgs{"id": id})
	if err != nil {
		return zero, fmt.Errorf("storage: query pool %q for id %d: %w", poolName, id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return zero, ErrUnknownID
	}
	return rp.scanner(rows)
}

// Delete removes id from poolName and from the global index.
func (rs *RuntimeStorage[E]) Delete(id uint64, poolName string) {
	if rp, ok := rs.lookupPool(poolName); ok {
		rp.pool.Delete(id)
	}
	rs.idMu.Lock()
	delete(rs.idIndex, id)
	rs.idMu.Unlock()
}

// Load enumerates every registered pool, reads every row back from the
// backend, and seeds the in-memory pool and the global index with any
// id not already present. Duplicate ids are skipped with a warning,
// matching original_source's load behavior. Each pool's query runs
// without holding mapMu, so Load never blocks traffic against pools it
// has not reached yet.
func (rs *RuntimeStorage[E]) Load(ctx context.Context) error {
	for _, name := range rs.poolNamesSnapshot() {
		rp, ok := rs.lookupPool(name)
		if !ok {
			continue
		}

		rows, err := rs.db.Query(ctx, fmt.Sprintf("SELECT * FROM %s", name), pgx.NamedArgs{})
		if err != nil {
			rs.logger.Debug("storage: load query failed", slog.String("pool", name), slog.Any("err", err))
			continue
		}

		for rows.Next() {
			entity, err := rp.scanner(rows)
			if err != nil {
				rs.logger.Debug("storage: load scan failed", slog.String("pool", name), slog.Any("err", err))
				continue
			}
			id := entity.ID()
			if rp.pool.Has(id) {
				rs.logger.Warn("storage: duplicate id on load, skipped",
					slog.String("pool", name), slog.Uint64("id", id))
				continue
			}
			if _, err := rp.pool.Insert(entity); err != nil {
				rs.logger.Debug("storage: load insert failed", slog.String("pool", name), slog.Any("err", err))
				continue
			}
			rs.idMu.Lock()
			rs.idIndex[id] = name
			rs.idMu.Unlock()
		}
		rows.Close()
	}
	return nil
}

// Sync runs the synchronization pass of spec.md §4.9.1 against every
// registered pool: push memory-only ids to disk, delete disk-only ids,
// then purge and drop the purged ids from the global index. Backend
// errors abort that pool's pass but never propagate past Sync; they
// are logged and retried on the next call.
//
// Per spec.md §5, each pool's pass runs without holding mapMu or idMu
// for its I/O, so a slow sync against one pool never blocks reads or
// writes against another.
func (rs *RuntimeStorage[E]) Sync(ctx context.Context) {
	for _, name := range rs.poolNamesSnapshot() {
		rp, ok := rs.lookupPool(name)
		if !ok {
			continue
		}

		if err := rs.syncPool(ctx, name, rp); err != nil {
			rs.logger.Debug("storage: sync pass failed, will retry", slog.String("pool", name), slog.Any("err", err))
			continue
		}

		purged := rp.pool.Purge()
		if len(purged) == 0 {
			continue
		}
		rs.idMu.Lock()
		for _, id := range purged {
			delete(rs.idIndex, id)
		}
		rs.idMu.Unlock()
	}
}

func (rs *RuntimeStorage[E]) syncPool(ctx context.Context, name string, rp *registeredPool[E]) error {
	rows, err := rs.db.Query(ctx, fmt.Sprintf("SELECT id FROM %s", name), pgx.NamedArgs{})
	if err != nil {
		return fmt.Errorf("query disk ids: %w", err)
	}
	diskIDs := make(map[uint64]struct{})
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan disk id: %w", err)
		}
		diskIDs[id] = struct{}{}
	}
	rows.Close()

	memoryIDs := make(map[uint64]struct{})
	for _, id := range rp.pool.IDs() {
		memoryIDs[id] = struct{}{}
	}

	for id := range memoryIDs {
		if _, onDisk := diskIDs[id]; onDisk {
			continue
		}
		entity, ok := rp.pool.Get(id)
		if !ok {
			continue
		}
		args := pgx.NamedArgs(entity.Value())
		if _, err := rs.db.Exec(ctx, entity.InsertStatement(name), args); err != nil {
			return fmt.Errorf("insert new id %d: %w", id, err)
		}
	}

	deprecated := make([]uint64, 0)
	for id := range diskIDs {
		if _, inMemory := memoryIDs[id]; !inMemory {
			deprecated = append(deprecated, id)
		}
	}
	if len(deprecated) > 0 {
		if err := rs.deleteDeprecated(ctx, name, deprecated); err != nil {
			return fmt.Errorf("delete deprecated ids: %w", err)
		}
	}
	return nil
}

// deleteDeprecated issues one DELETE ... WHERE id IN (...) for every
// disk id with no in-memory counterpart, matching original_source's
// database_sync (it joined the deprecated set into a literal IN
// list rather than binding a slice parameter).
func (rs *RuntimeStorage[E]) deleteDeprecated(ctx context.Context, table string, ids []uint64) error {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE id IN (%s)", table, joinUint64(ids))
	_, err := rs.db.Exec(ctx, stmt, pgx.NamedArgs{})
	return err
}

func joinUint64(ids []uint64) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%d", id)
	}
	return out
}
