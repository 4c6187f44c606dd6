package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-studio/internal/api/dto"
	"github.com/spec-kit/placement-studio/internal/domain"
	"github.com/spec-kit/placement-studio/internal/service"
)

// StaffHandler exposes the staff roster.
type StaffHandler struct {
	store *service.EntityStore
}

// NewStaffHandler constructs handler.
func NewStaffHandler(store *service.EntityStore) *StaffHandler {
	return &StaffHandler{store: store}
}

// List handles GET /api/staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	staff, err := h.store.ListStaff(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.StaffResponse, 0, len(staff))
	for _, member := range staff {
		resp = append(resp, dto.NewStaffResponse(member))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /api/staff/:id.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	staff, err := h.store.GetStaff(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffResponse(*staff)})
}

// Create handles POST /api/staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.StaffCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input := req.Input()
	if err := domain.ValidateStaffInput(input); err != nil {
		return err
	}
	staff, err := h.store.CreateStaff(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewStaffResponse(*staff)})
}

// Update handles PATCH /api/staff/:id.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var req dto.StaffUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	patch := req.Patch()
	if err := domain.ValidateStaffPatch(patch); err != nil {
		return err
	}
	staff, err := h.store.UpdateStaff(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffResponse(*staff)})
}

// Delete handles DELETE /api/staff/:id. Objects owned by the member keep
// their owner id.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	if err := h.store.DeleteStaff(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
