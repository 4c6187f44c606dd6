package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-studio/internal/api/dto"
	"github.com/spec-kit/placement-studio/internal/interaction"
	"github.com/spec-kit/placement-studio/internal/spatial"
	apperrors "github.com/spec-kit/placement-studio/pkg/util/errorutil"
)

// SessionHandler exposes the interaction session intents. Every intent
// answers with the session snapshot taken after it ran.
type SessionHandler struct {
	session *interaction.Session
}

// NewSessionHandler constructs handler.
func NewSessionHandler(session *interaction.Session) *SessionHandler {
	return &SessionHandler{session: session}
}

// Snapshot handles GET /api/session.
func (h *SessionHandler) Snapshot(c *fiber.Ctx) error {
	return h.respond(c)
}

// Prompt handles GET /api/session/prompt.
func (h *SessionHandler) Prompt(c *fiber.Ctx) error {
	view, ok, err := h.session.Prompt(c.UserContext())
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewConflict("no placement awaiting an owner", nil)
	}
	return c.JSON(fiber.Map{"data": view})
}

// Mount handles POST /api/session/mount.
func (h *SessionHandler) Mount(c *fiber.Ctx) error {
	if err := h.session.Mount(c.UserContext()); err != nil {
		return err
	}
	return h.respond(c)
}

// Unmount handles POST /api/session/unmount.
func (h *SessionHandler) Unmount(c *fiber.Ctx) error {
	h.session.Unmount()
	return h.respond(c)
}

// Refresh handles POST /api/session/refresh.
func (h *SessionHandler) Refresh(c *fiber.Ctx) error {
	if err := h.session.Refresh(c.UserContext()); err != nil {
		return err
	}
	return h.respond(c)
}

// PointerMove handles POST /api/session/pointer/move.
func (h *SessionHandler) PointerMove(c *fiber.Ctx) error {
	req, err := h.pointer(c)
	if err != nil {
		return err
	}
	if err := h.session.PointerMove(c.UserContext(), req.X, req.Y); err != nil {
		return err
	}
	return h.respond(c)
}

// PointerActivate handles POST /api/session/pointer/activate.
func (h *SessionHandler) PointerActivate(c *fiber.Ctx) error {
	req, err := h.pointer(c)
	if err != nil {
		return err
	}
	var at time.Time
	if req.AtMs > 0 {
		at = time.UnixMilli(req.AtMs)
	}
	if err := h.session.PointerActivate(c.UserContext(), req.X, req.Y, at); err != nil {
		return err
	}
	return h.respond(c)
}

// Select handles POST /api/session/select.
func (h *SessionHandler) Select(c *fiber.Ctx) error {
	var req dto.SelectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.session.SelectObject(c.UserContext(), req.ID); err != nil {
		return err
	}
	return h.respond(c)
}

// RequestPlacement handles POST /api/session/placement.
func (h *SessionHandler) RequestPlacement(c *fiber.Ctx) error {
	var req dto.GroundRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.session.RequestPlacement(c.UserContext(), req.X, req.Z); err != nil {
		return err
	}
	return h.respond(c)
}

// ResolvePlacement handles POST /api/session/placement/resolve. The owner
// must be one of the options of the current prompt.
func (h *SessionHandler) ResolvePlacement(c *fiber.Ctx) error {
	var req dto.ResolvePlacementRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	view, ok, err := h.session.Prompt(c.UserContext())
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewConflict("no placement awaiting an owner", nil)
	}
	if err := view.Choose(c.UserContext(), req.OwnerID, h.session); err != nil {
		return err
	}
	return h.respond(c)
}

// CancelPlacement handles POST /api/session/placement/cancel.
func (h *SessionHandler) CancelPlacement(c *fiber.Ctx) error {
	if err := h.session.CancelPlacement(c.UserContext()); err != nil {
		return err
	}
	return h.respond(c)
}

// StartDrag handles POST /api/session/drag/start.
func (h *SessionHandler) StartDrag(c *fiber.Ctx) error {
	var req dto.DragStartRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.session.StartDrag(c.UserContext(), req.ID); err != nil {
		return err
	}
	return h.respond(c)
}

// MoveDrag handles POST /api/session/drag/move.
func (h *SessionHandler) MoveDrag(c *fiber.Ctx) error {
	var req dto.GroundRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.session.MoveDrag(c.UserContext(), req.X, req.Z); err != nil {
		return err
	}
	return h.respond(c)
}

// ReleaseDrag handles POST /api/session/drag/release.
func (h *SessionHandler) ReleaseDrag(c *fiber.Ctx) error {
	if err := h.session.ReleaseDrag(c.UserContext()); err != nil {
		return err
	}
	return h.respond(c)
}

// CommitDrag handles POST /api/session/drag/commit.
func (h *SessionHandler) CommitDrag(c *fiber.Ctx) error {
	var req dto.CommitDragRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.session.CommitDrag(c.UserContext(), req.ID, req.X, req.Z); err != nil {
		return err
	}
	return h.respond(c)
}

// DeleteObject handles DELETE /api/session/objects/:id.
func (h *SessionHandler) DeleteObject(c *fiber.Ctx) error {
	if err := h.session.DeleteObject(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return h.respond(c)
}

// Orbit handles POST /api/session/camera/orbit.
func (h *SessionHandler) Orbit(c *fiber.Ctx) error {
	var req dto.OrbitRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	h.session.OrbitCamera(req.Azimuth, req.Polar, req.Zoom)
	return h.respond(c)
}

// Focus handles POST /api/session/camera/focus.
func (h *SessionHandler) Focus(c *fiber.Ctx) error {
	var req dto.FocusRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	seconds := float32(interaction.DefaultFocusSeconds)
	if req.Seconds != nil {
		seconds = *req.Seconds
	}
	if _, err := h.session.FocusSelected(seconds); err != nil {
		return err
	}
	return h.respond(c)
}

// Tick handles POST /api/session/camera/tick.
func (h *SessionHandler) Tick(c *fiber.Ctx) error {
	var req dto.TickRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Dt < 0 {
		return apperrors.NewValidationError("dt must not be negative", nil)
	}
	h.session.Tick(req.Dt)
	return h.respond(c)
}

func (h *SessionHandler) pointer(c *fiber.Ctx) (dto.PointerRequest, error) {
	var req dto.PointerRequest
	if err := parseBody(c, &req); err != nil {
		return req, err
	}
	if vp := req.Viewport; vp != nil {
		if vp.Width <= 0 || vp.Height <= 0 {
			return req, apperrors.NewValidationError("viewport must have a positive size", nil)
		}
		h.session.SetViewport(spatial.Viewport{Left: vp.Left, Top: vp.Top, Width: vp.Width, Height: vp.Height})
	}
	return req, nil
}

func (h *SessionHandler) respond(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"data": h.session.Snapshot()})
}
