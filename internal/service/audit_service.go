package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/placement-studio/internal/config"
	"github.com/spec-kit/placement-studio/internal/events"
)

// auditCapacity bounds the in-memory change feed.
const auditCapacity = 200

// AuditService records store changes in a bounded feed and logs them. With
// a webhook configured, changes are also queued for delivery by Run.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AuditConfig
	outbox     chan events.Event

	mu     sync.RWMutex
	recent []events.Event
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
	if strings.TrimSpace(cfg.WebhookURL) != "" {
		a.outbox = make(chan events.Event, auditCapacity)
	}
	return a
}

// RegisterHandlers subscribes to every store event.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllTypes {
		a.dispatcher.Subscribe(eventType, a.handleChange)
	}
}

// Recent returns up to limit events, newest first. A non-positive limit
// returns the whole feed.
func (a *AuditService) Recent(limit int) []events.Event {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if limit <= 0 || limit > len(a.recent) {
		limit = len(a.recent)
	}
	out := make([]events.Event, 0, limit)
	for i := len(a.recent) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, a.recent[i])
	}
	return out
}

func (a *AuditService) handleChange(ctx context.Context, event events.Event) error {
	a.mu.Lock()
	a.recent = append(a.recent, event)
	if len(a.recent) > auditCapacity {
		a.recent = a.recent[len(a.recent)-auditCapacity:]
	}
	a.mu.Unlock()

	a.logger.Info("StoreChanged",
		zap.String("event_type", string(event.Type)),
		zap.String("entity_id", event.EntityID),
		zap.Any("payload", event.Payload))
	a.enqueue(event)
	return nil
}

// enqueue never blocks the store; a full outbox drops the delivery.
func (a *AuditService) enqueue(event events.Event) {
	if a.outbox == nil {
		return
	}
	select {
	case a.outbox <- event:
	default:
		a.logger.Warn("audit webhook queue full; dropping change", zap.String("event_id", event.ID))
	}
}

// Run delivers queued changes to the webhook until ctx ends. It returns at
// once when no webhook is configured.
func (a *AuditService) Run(ctx context.Context) {
	if a.outbox == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-a.outbox:
			if err := a.deliver(event); err != nil {
				a.logger.Warn("audit webhook delivery failed",
					zap.String("event_id", event.ID),
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
			}
		}
	}
}

func (a *AuditService) deliver(event events.Event) error {
	agent := fiber.Post(a.cfg.WebhookURL)
	agent.JSON(event)
	agent.Timeout(a.cfg.WebhookTimeout())
	if err := agent.Parse(); err != nil {
		return err
	}
	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if code >= 300 {
		return fmt.Errorf("webhook responded %d", code)
	}
	return nil
}
