package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-studio/internal/api/dto"
	"github.com/spec-kit/placement-studio/internal/service"
	apperrors "github.com/spec-kit/placement-studio/pkg/util/errorutil"
)

// AuthHandler exposes operator login.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/operator/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.OperatorLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Name == "" || req.Password == "" {
		return apperrors.NewValidationError("name and password required", nil)
	}

	token, exp, err := h.authService.Login(c.UserContext(), req.Name, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}
