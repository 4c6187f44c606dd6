package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/placement-studio/internal/config"
)

// Backend is an opened gateway plus the resources behind it.
type Backend struct {
	Gateway Gateway
	Name    string
	close   func()
}

// Close releases backend connections.
func (b *Backend) Close() {
	if b != nil && b.close != nil {
		b.close()
	}
}

// OpenBackend opens the gateway selected by cfg.Storage.Backend.
func OpenBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		r := NewRedis(cfg.Redis, logger)
		return &Backend{Gateway: NewRedisGateway(r, logger), Name: config.BackendRedis, close: r.Close}, nil
	case config.BackendPostgres:
		pool, err := OpenPostgresPool(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				pool.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return &Backend{Gateway: NewPostgresGateway(pool, logger), Name: config.BackendPostgres, close: pool.Close}, nil
	case config.BackendMemory, "":
		return &Backend{Gateway: NewMemoryGateway(cfg.Storage.Latency(), logger), Name: config.BackendMemory}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
