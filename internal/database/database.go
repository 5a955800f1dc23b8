// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package database handles PostgreSQL connection management and migration
// execution using goose. It exposes a process-wide Handle that lazily builds
// a pgx connection pool on first use, shares it between callers, and drops
// it when the connection is lost so the next call reconnects.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var embedMigrations embed.FS

// Pool tuning. The connect timeout bounds how long the first caller waits
// for the server to become reachable.
const (
	DefaultMaxConns = 10
	ConnectTimeout  = 10 * time.Second
	MaxConnIdleTime = 45 * time.Second
)

// DBTX is the query surface the stores depend on. *Handle, *pgxpool.Pool
// and pgx.Tx all satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Handle owns the lazily created connection pool. The zero value is not
// usable; construct it with New.
type Handle struct {
	dsn      string
	maxConns int32

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// New returns a Handle for dsn. No connection is made until Acquire.
func New(dsn string, maxConns int32) *Handle {
	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}
	return &Handle{dsn: dsn, maxConns: maxConns}
}

// Acquire returns the shared pool, building and pinging it on first use.
// Concurrent first callers block on the same construction and receive the
// same pool.
func (h *Handle) Acquire(ctx context.Context) (*pgxpool.Pool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pool != nil {
		return h.pool, nil
	}

	cfg, err := pgxpool.ParseConfig(h.dsn)
	if err != nil {
		return nil, fmt.Errorf("database parse dsn: %w", err)
	}
	cfg.MaxConns = h.maxConns
	cfg.MaxConnIdleTime = MaxConnIdleTime
	cfg.ConnConfig.ConnectTimeout = ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected", "max_conns", h.maxConns)
	h.pool = pool
	return pool, nil
}

// Invalidate closes and forgets the cached pool. The next Acquire rebuilds it.
func (h *Handle) Invalidate() {
	h.mu.Lock()
	pool := h.pool
	h.pool = nil
	h.mu.Unlock()

	if pool != nil {
		slog.Warn("database connection lost, pool discarded")
		pool.Close()
	}
}

// Close tears the pool down. It is safe to call more than once.
func (h *Handle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pool != nil {
		h.pool.Close()
		h.pool = nil
	}
}

// Do runs fn against the shared pool. If fn fails with a connection-loss
// error the cached pool is invalidated before the error is returned.
func (h *Handle) Do(ctx context.Context, fn func(ctx context.Context, pool *pgxpool.Pool) error) error {
	pool, err := h.Acquire(ctx)
	if err != nil {
		return err
	}
	err = fn(ctx, pool)
	h.observe(err)
	return err
}

// Exec implements DBTX.
func (h *Handle) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	var tag pgconn.CommandTag
	err := h.Do(ctx, func(ctx context.Context, pool *pgxpool.Pool) error {
		var err error
		tag, err = pool.Exec(ctx, sql, args...)
		return err
	})
	return tag, err
}

// Query implements DBTX. Errors surfacing later through Rows.Err are
// observed as well.
func (h *Handle) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	var rows pgx.Rows
	err := h.Do(ctx, func(ctx context.Context, pool *pgxpool.Pool) error {
		var err error
		rows, err = pool.Query(ctx, sql, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &observedRows{Rows: rows, h: h}, nil
}

// QueryRow implements DBTX.
func (h *Handle) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	pool, err := h.Acquire(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return observedRow{row: pool.QueryRow(ctx, sql, args...), h: h}
}

// Begin starts a transaction on the shared pool.
func (h *Handle) Begin(ctx context.Context) (pgx.Tx, error) {
	var tx pgx.Tx
	err := h.Do(ctx, func(ctx context.Context, pool *pgxpool.Pool) error {
		var err error
		tx, err = pool.Begin(ctx)
		return err
	})
	return tx, err
}

// Ping verifies the database is reachable.
func (h *Handle) Ping(ctx context.Context) error {
	return h.Do(ctx, func(ctx context.Context, pool *pgxpool.Pool) error {
		return pool.Ping(ctx)
	})
}

func (h *Handle) observe(err error) {
	if IsConnectionLoss(err) {
		h.Invalidate()
	}
}

// IsConnectionLoss reports whether err means the server went away, as
// opposed to a query or constraint failure.
func IsConnectionLoss(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 is connection exception; 57P01..57P03 are shutdown states.
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return true
		}
		switch pgErr.Code {
		case "57P01", "57P02", "57P03":
			return true
		}
	}
	return false
}

type observedRows struct {
	pgx.Rows
	h *Handle
}

func (r *observedRows) Err() error {
	err := r.Rows.Err()
	r.h.observe(err)
	return err
}

type observedRow struct {
	row pgx.Row
	h   *Handle
}

func (r observedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	r.h.observe(err)
	return err
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// Migrate runs all pending goose migrations from the embedded SQL files.
// Migrations are embedded at compile time so no external files are needed
// at runtime.
func Migrate(ctx context.Context, h *Handle) error {
	pool, err := h.Acquire(ctx)
	if err != nil {
		return err
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return migrate(ctx, db)
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied")
	return nil
}

// MigrationStatus logs the applied state of every embedded migration.
func MigrationStatus(ctx context.Context, h *Handle) error {
	pool, err := h.Acquire(ctx)
	if err != nil {
		return err
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	return goose.StatusContext(ctx, db, "migrations")
}
