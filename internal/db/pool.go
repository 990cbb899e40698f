// Package db holds the Postgres connection plumbing shared by the stores.
package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of *pgxpool.Pool the stores use. pgxmock pools satisfy
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PoolConfig holds optional connection pool sizing.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// Connect opens a pgx pool, prepares statements on every new connection and
// pings the server.
func Connect(ctx context.Context, connString string, cfg *PoolConfig, prepared map[string]string) (*pgxpool.Pool, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "db: parse config")
	}

	pgxCfg.MaxConns = 4
	pgxCfg.MinConns = 1
	if cfg != nil {
		if cfg.MaxConns > 0 {
			pgxCfg.MaxConns = cfg.MaxConns
		}
		if cfg.MinConns > 0 {
			pgxCfg.MinConns = cfg.MinConns
		}
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	if len(prepared) > 0 {
		pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			for name, sql := range prepared {
				if _, err := conn.Prepare(ctx, name, sql); err != nil {
					return eris.Wrapf(err, "db: prepare %s", name)
				}
			}
			return nil
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "db: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "db: ping")
	}
	return pool, nil
}
