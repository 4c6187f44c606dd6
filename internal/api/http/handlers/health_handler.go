package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-studio/internal/persistence"
	apperrors "github.com/spec-kit/placement-studio/pkg/util/errorutil"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	backend     string
	gateway     persistence.Gateway
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version, backend string, gateway persistence.Gateway) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, backend: backend, gateway: gateway}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness by pinging the storage backend.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.gateway.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    apperrors.CodePersistenceUnavailable,
				"message": "storage backend unavailable",
				"details": fiber.Map{h.backend: err.Error()},
			},
		})
	}

	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": fiber.Map{h.backend: "ok"},
	})
}
