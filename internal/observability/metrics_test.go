package observability

import (
	"testing"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/placement-studio/internal/config"
)

func TestMetrics_RecordIntent(t *testing.T) {
	m := NewMetrics()
	m.RecordIntent("select", true)
	m.RecordIntent("select", true)
	m.RecordIntent("select", false)

	if got := m.IntentCount("select", true); got != 2 {
		t.Errorf("accepted count %d, want 2", got)
	}
	if got := m.IntentCount("select", false); got != 1 {
		t.Errorf("rejected count %d, want 1", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordIntent("select", true)
	m.RecordRequest("/health/live", "GET", 200, time.Millisecond)
	m.RecordError("/api/objects", "GET", "NOT_FOUND")
	if m.IntentCount("select", true) != 0 {
		t.Error("nil metrics should report zero")
	}
}

func TestNewLogger_InvalidLevelFallsBack(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "loud"}, config.AppConfig{Name: "placement-studio", Env: "test"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info level should be enabled")
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be disabled")
	}
}

func TestNewLogger_DebugLevel(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "DEBUG"}, config.AppConfig{Env: "production"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}
}
