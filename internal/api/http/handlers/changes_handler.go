package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-studio/internal/service"
)

// ChangesHandler exposes the recent store change feed.
type ChangesHandler struct {
	audit *service.AuditService
}

// NewChangesHandler constructs handler.
func NewChangesHandler(audit *service.AuditService) *ChangesHandler {
	return &ChangesHandler{audit: audit}
}

// List handles GET /api/changes?limit=n.
func (h *ChangesHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.audit.Recent(parseIntQuery(c, "limit", 50))})
}
