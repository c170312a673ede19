// Package db owns the Postgres connection pool and schema migrations.
package db

import (
	"context"
	"time"

	"dealer_portal_backend/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing. Sized for a single API instance sharing one Postgres with
// the worker; revisit if either scales horizontally.
const (
	maxConns          = 25
	minConns          = 5
	maxConnLifetime   = 1 * time.Hour
	maxConnIdleTime   = 30 * time.Minute
	healthCheckPeriod = 1 * time.Minute
)

// NewPool opens a pgx pool against the configured database URL and verifies
// connectivity with a ping before returning it.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDatabaseURL())
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
