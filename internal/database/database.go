package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Default pool sizing.
const (
	DefaultMaxConns = 10
	DefaultMinConns = 2
)

// DB wraps a pgxpool.Pool for reading the time ledger.
type DB struct {
	pool *pgxpool.Pool
}

// Options tunes the connection pool. Zero values use the defaults.
type Options struct {
	MaxConns int32
	MinConns int32
}

// Pool returns the underlying connection pool.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// New creates a new database connection pool and verifies it is reachable.
func New(ctx context.Context, databaseURL string, opts Options) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	config.MaxConns = DefaultMaxConns
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	config.MinConns = DefaultMinConns
	if opts.MinConns > 0 {
		config.MinConns = min(opts.MinConns, config.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connected", "max_conns", config.MaxConns)

	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
	slog.Info("database connection closed")
}
