package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/placement-studio/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// RedisGateway stores gateway values as plain Redis strings.
type RedisGateway struct {
	redis  *Redis
	logger *zap.Logger
}

// NewRedisGateway builds a gateway over an existing connection.
func NewRedisGateway(r *Redis, logger *zap.Logger) *RedisGateway {
	return &RedisGateway{redis: r, logger: logger}
}

func (g *RedisGateway) Get(ctx context.Context, key string) ([]byte, bool) {
	if g.redis == nil || g.redis.Client == nil {
		return nil, false
	}
	raw, err := g.redis.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		g.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return raw, true
}

func (g *RedisGateway) Set(ctx context.Context, key string, value []byte) {
	if g.redis == nil || g.redis.Client == nil {
		return
	}
	if err := g.redis.Client.Set(ctx, key, value, 0).Err(); err != nil {
		g.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}

func (g *RedisGateway) Has(ctx context.Context, key string) bool {
	if g.redis == nil || g.redis.Client == nil {
		return false
	}
	n, err := g.redis.Client.Exists(ctx, key).Result()
	if err != nil {
		g.logger.Warn("redis exists failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return n > 0
}

func (g *RedisGateway) SetIfAbsent(ctx context.Context, key string, value []byte) bool {
	if g.redis == nil || g.redis.Client == nil {
		return false
	}
	if err := g.redis.Client.SetNX(ctx, key, value, 0).Err(); err != nil {
		g.logger.Warn("redis setnx failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (g *RedisGateway) Remove(ctx context.Context, key string) {
	if g.redis == nil || g.redis.Client == nil {
		return
	}
	if err := g.redis.Client.Del(ctx, key).Err(); err != nil {
		g.logger.Warn("redis del failed", zap.String("key", key), zap.Error(err))
	}
}

func (g *RedisGateway) Ping(ctx context.Context) error {
	return g.redis.Ping(ctx)
}
