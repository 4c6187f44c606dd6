package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/placement-studio/pkg/util/errorutil"
)

// RequireOperator ensures an operator is authenticated.
func RequireOperator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("operator token required")
		}
		return c.Next()
	}
}
