package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions sizes the pool. Zero values fall back to the defaults below.
type PoolOptions struct {
	MaxConns    int32
	MinConns    int32
	HealthCheck time.Duration
}

const (
	defaultMaxConns    = 8
	defaultMinConns    = 1
	defaultHealthCheck = 30 * time.Second
)

func poolConfig(dsn string, opt PoolOptions) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = defaultMaxConns
	if opt.MaxConns > 0 {
		cfg.MaxConns = opt.MaxConns
	}
	cfg.MinConns = defaultMinConns
	if opt.MinConns > 0 {
		cfg.MinConns = opt.MinConns
	}
	if cfg.MinConns > cfg.MaxConns {
		cfg.MinConns = cfg.MaxConns
	}
	cfg.HealthCheckPeriod = defaultHealthCheck
	if opt.HealthCheck > 0 {
		cfg.HealthCheckPeriod = opt.HealthCheck
	}
	return cfg, nil
}

// Connect opens the pool and pings it once.
func Connect(ctx context.Context, dsn string, opt PoolOptions) (*pgxpool.Pool, error) {
	cfg, err := poolConfig(dsn, opt)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
