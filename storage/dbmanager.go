// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBManager is the backend contract [RuntimeStorage] drives: execute a
// statement, run a query, report liveness, and close. Grounded on
// original_source's DbManager (exec_and_drop / exec_and_return /
// query). RuntimeStorage itself calls only Exec and Query.
type DBManager interface {
	Exec(ctx context.Context, sql string, args pgx.NamedArgs) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args pgx.NamedArgs) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// PoolConfig names the fields SPEC_FULL.md's [Config] exposes for the
// database connection: host, port, credentials, and database name.
// Mirrors the shape of the pgxpool-backed Database/Config pair seen in
// the retrieved HelixCode internal database package.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PgxManager is the concrete, pgx/v5-backed [DBManager]. Grounded on
// original_source's DbManager.new (builds a connection URL from
// host/user/password/db_name) and on the retrieved HelixCode
// database.go's pgxpool.ParseConfig / pgxpool.NewWithConfig / Ping
// wiring, adapted from mysql to Postgres.
type PgxManager struct {
	pool *pgxpool.Pool
}

// NewPgxManager parses cfg into a connection string, opens a pool, and
// pings it before returning so startup failures surface immediately
// (configuration errors at startup are fatal per spec.md §5).
func NewPgxManager(ctx context.Context, cfg PoolConfig) (*PgxManager, error) {
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	connString := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("storage: parse database config: %w", err)
	}
	poolConfig.MaxConns = 20
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("storage: create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: ping database: %w", err)
	}

	return &PgxManager{pool: pool}, nil
}

func (m *PgxManager) Exec(ctx context.Context, sql string, args pgx.NamedArgs) (pgconn.CommandTag, error) {
	return m.pool.Exec(ctx, sql, args)
}

func (m *PgxManager) Query(ctx context.Context, sql string, args pgx.NamedArgs) (pgx.Rows, error) {
	return m.pool.Query(ctx, sql, args)
}

func (m *PgxManager) Ping(ctx context.Context) error {
	return m.pool.Ping(ctx)
}

func (m *PgxManager) Close() {
	m.pool.Close()
}
