package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, exp, err := tm.GenerateToken("operator")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if exp.IsZero() {
		t.Error("zero expiry")
	}
	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Operator != "operator" {
		t.Errorf("operator = %q", claims.Operator)
	}

	if _, err := NewTokenManager("other", 5).ParseToken(token); err == nil {
		t.Error("token accepted with a different secret")
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hash, "hunter2"); err != nil {
		t.Errorf("ComparePassword: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if _, err := HashPassword("", bcrypt.MinCost); err == nil {
		t.Error("empty password hashed")
	}
}

func newApp(tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(http.StatusUnauthorized)
		},
	})
	mw := NewAuthMiddleware(tm)
	app.Get("/open", mw.Handle, func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); ok {
			return c.SendString("operator")
		}
		return c.SendString("anonymous")
	})
	app.Get("/closed", mw.Handle, RequireOperator(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app
}

func TestMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, _, _ := tm.GenerateToken("operator")
	app := newApp(tm)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"anonymous open", "/open", "", http.StatusOK},
		{"anonymous closed", "/closed", "", http.StatusUnauthorized},
		{"valid token", "/closed", "Bearer " + token, http.StatusNoContent},
		{"bad scheme", "/open", "Basic abc", http.StatusUnauthorized},
		{"bad token", "/closed", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}
