package persistence

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Gateway is a best-effort key/value blob store. Implementations swallow
// storage failures: reads report absence and writes become no-ops.
type Gateway interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Has(ctx context.Context, key string) bool
	// SetIfAbsent writes value only when key holds nothing. It reports
	// whether key holds a value afterwards; false means the backend failed.
	SetIfAbsent(ctx context.Context, key string, value []byte) bool
	Remove(ctx context.Context, key string)
	// Ping reports backend reachability for readiness probes.
	Ping(ctx context.Context) error
}

// Collection is a typed JSON value stored under one gateway key.
type Collection[T any] struct {
	gw     Gateway
	key    string
	logger *zap.Logger
}

// NewCollection binds a typed value to key.
func NewCollection[T any](gw Gateway, key string, logger *zap.Logger) *Collection[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection[T]{gw: gw, key: key, logger: logger}
}

// Read returns the stored value. ok is false when the gateway returned
// nothing, which covers both an absent key and a failed backend; fallback is
// returned then. Stored bytes that do not decode yield fallback with ok set,
// since they may be overwritten.
func (c *Collection[T]) Read(ctx context.Context, fallback T) (value T, ok bool) {
	raw, found := c.gw.Get(ctx, c.key)
	if !found {
		return fallback, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		c.logger.Warn("discarding undecodable value", zap.String("key", c.key), zap.Error(err))
		return fallback, true
	}
	return value, true
}

// Init stores value unless the key already holds one. It reports whether
// the key holds a value afterwards.
func (c *Collection[T]) Init(ctx context.Context, value T) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("unable to encode value", zap.String("key", c.key), zap.Error(err))
		return false
	}
	return c.gw.SetIfAbsent(ctx, c.key, raw)
}

// Store encodes value and writes it. Encoding failures are logged and dropped.
func (c *Collection[T]) Store(ctx context.Context, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("unable to encode value", zap.String("key", c.key), zap.Error(err))
		return
	}
	c.gw.Set(ctx, c.key, raw)
}
