// Package store implements the ownership-scoped repositories over
// PostgreSQL. Each store takes the database as a DBOps capability so the
// connection pool stays injectable and the stores stay testable.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBOps is the subset of pgx operations the stores need.
// Satisfied by *pgxpool.Pool.
type DBOps interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Config holds the connection settings for Open.
type Config struct {
	DSN             string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime string
}

// Open creates a *pgxpool.Pool applying the configured sizing.
// pgxpool has no MaxOpen/MaxIdle split; pool size is MaxConns.
func Open(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse pgxpool config: %w", err)
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(cfg.MaxConns)
	} else {
		pc.MaxConns = 10
	}
	if cfg.MinConns > 0 {
		pc.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime != "" {
		d, err := time.ParseDuration(cfg.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("parse conn_max_lifetime: %w", err)
		}
		pc.MaxConnLifetime = d
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}
