package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-studio/internal/api/dto"
	"github.com/spec-kit/placement-studio/internal/domain"
	"github.com/spec-kit/placement-studio/internal/service"
)

// ObjectsHandler exposes the placed object collection.
type ObjectsHandler struct {
	store *service.EntityStore
}

// NewObjectsHandler constructs handler.
func NewObjectsHandler(store *service.EntityStore) *ObjectsHandler {
	return &ObjectsHandler{store: store}
}

// List handles GET /api/objects. The optional owner_id query filters by owner.
func (h *ObjectsHandler) List(c *fiber.Ctx) error {
	objects, err := h.store.ListObjects(c.UserContext())
	if err != nil {
		return err
	}
	owner := c.Query("owner_id")
	resp := make([]dto.ObjectResponse, 0, len(objects))
	for _, object := range objects {
		if owner != "" && object.OwnerID != owner {
			continue
		}
		resp = append(resp, dto.NewObjectResponse(object))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /api/objects/:id.
func (h *ObjectsHandler) Get(c *fiber.Ctx) error {
	object, err := h.store.GetObject(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewObjectResponse(*object)})
}

// Create handles POST /api/objects.
func (h *ObjectsHandler) Create(c *fiber.Ctx) error {
	var req dto.ObjectCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input := req.Input()
	if err := domain.ValidateObjectInput(input); err != nil {
		return err
	}
	object, err := h.store.CreateObject(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewObjectResponse(*object)})
}

// Update handles PATCH /api/objects/:id.
func (h *ObjectsHandler) Update(c *fiber.Ctx) error {
	var req dto.ObjectUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	patch := req.Patch()
	if err := domain.ValidateObjectPatch(patch); err != nil {
		return err
	}
	object, err := h.store.UpdateObject(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewObjectResponse(*object)})
}

// Delete handles DELETE /api/objects/:id.
func (h *ObjectsHandler) Delete(c *fiber.Ctx) error {
	if err := h.store.DeleteObject(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
