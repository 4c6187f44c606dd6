package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/placement-studio/internal/config"
)

var errPostgresDSNMissing = errors.New("POSTGRES_DSN is required for the postgres backend")

// PostgresGateway stores collection documents as JSONB rows of kv_store.
type PostgresGateway struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// OpenPostgresPool dials the database described by cfg and checks it answers.
func OpenPostgresPool(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, errPostgresDSNMissing
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("postgres gateway connected", zap.Int32("max_conns", poolCfg.MaxConns))
	return pool, nil
}

// NewPostgresGateway builds a gateway over an open pool.
func NewPostgresGateway(pool *pgxpool.Pool, logger *zap.Logger) *PostgresGateway {
	return &PostgresGateway{pool: pool, logger: logger}
}

func (g *PostgresGateway) Get(ctx context.Context, key string) ([]byte, bool) {
	const query = `SELECT value FROM kv_store WHERE key=$1`

	var raw []byte
	if err := g.pool.QueryRow(ctx, query, key).Scan(&raw); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			g.logger.Warn("postgres get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return raw, true
}

func (g *PostgresGateway) Set(ctx context.Context, key string, value []byte) {
	const query = `
        INSERT INTO kv_store (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`

	if _, err := g.pool.Exec(ctx, query, key, value); err != nil {
		g.logger.Warn("postgres set failed", zap.String("key", key), zap.Error(err))
	}
}

func (g *PostgresGateway) Has(ctx context.Context, key string) bool {
	const query = `SELECT EXISTS(SELECT 1 FROM kv_store WHERE key=$1)`

	var exists bool
	if err := g.pool.QueryRow(ctx, query, key).Scan(&exists); err != nil {
		g.logger.Warn("postgres exists failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return exists
}

func (g *PostgresGateway) SetIfAbsent(ctx context.Context, key string, value []byte) bool {
	const query = `
        INSERT INTO kv_store (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO NOTHING`

	if _, err := g.pool.Exec(ctx, query, key, value); err != nil {
		g.logger.Warn("postgres insert failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (g *PostgresGateway) Remove(ctx context.Context, key string) {
	if _, err := g.pool.Exec(ctx, `DELETE FROM kv_store WHERE key=$1`, key); err != nil {
		g.logger.Warn("postgres delete failed", zap.String("key", key), zap.Error(err))
	}
}

func (g *PostgresGateway) Ping(ctx context.Context) error {
	return g.pool.Ping(ctx)
}
