package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var errMemoryUnavailable = errors.New("memory gateway marked unavailable")

// MemoryGateway keeps values in process memory. It can simulate latency and
// an unavailable backend.
type MemoryGateway struct {
	mu          sync.RWMutex
	data        map[string][]byte
	latency     time.Duration
	unavailable bool
	logger      *zap.Logger
}

// NewMemoryGateway creates an empty gateway. latency is applied to every call.
func NewMemoryGateway(latency time.Duration, logger *zap.Logger) *MemoryGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryGateway{
		data:    make(map[string][]byte),
		latency: latency,
		logger:  logger,
	}
}

// SetUnavailable toggles simulated backend failure.
func (m *MemoryGateway) SetUnavailable(unavailable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = unavailable
}

func (m *MemoryGateway) Get(ctx context.Context, key string) ([]byte, bool) {
	if !m.wait(ctx) {
		return nil, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.unavailable {
		m.logger.Warn("gateway read failed", zap.String("key", key), zap.Error(errMemoryUnavailable))
		return nil, false
	}
	raw, ok := m.data[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), raw...), true
}

func (m *MemoryGateway) Set(ctx context.Context, key string, value []byte) {
	if !m.wait(ctx) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		m.logger.Warn("gateway write failed", zap.String("key", key), zap.Error(errMemoryUnavailable))
		return
	}
	m.data[key] = append([]byte(nil), value...)
}

func (m *MemoryGateway) Has(ctx context.Context, key string) bool {
	if !m.wait(ctx) {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.unavailable {
		return false
	}
	_, ok := m.data[key]
	return ok
}

func (m *MemoryGateway) SetIfAbsent(ctx context.Context, key string, value []byte) bool {
	if !m.wait(ctx) {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		m.logger.Warn("gateway write failed", zap.String("key", key), zap.Error(errMemoryUnavailable))
		return false
	}
	if _, ok := m.data[key]; !ok {
		m.data[key] = append([]byte(nil), value...)
	}
	return true
}

func (m *MemoryGateway) Remove(ctx context.Context, key string) {
	if !m.wait(ctx) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return
	}
	delete(m.data, key)
}

func (m *MemoryGateway) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.unavailable {
		return errMemoryUnavailable
	}
	return nil
}

// wait applies the simulated latency. It reports false when ctx ends first.
func (m *MemoryGateway) wait(ctx context.Context) bool {
	if m.latency <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(m.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		m.logger.Debug("gateway call abandoned", zap.Error(ctx.Err()))
		return false
	case <-timer.C:
		return true
	}
}
