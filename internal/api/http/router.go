package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-studio/internal/api/http/handlers"
	"github.com/spec-kit/placement-studio/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	Objects        *handlers.ObjectsHandler
	Session        *handlers.SessionHandler
	Changes        *handlers.ChangesHandler
	AuthMiddleware *auth.AuthMiddleware
	AuthRequired   bool
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/operator/login", cfg.Auth.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	if cfg.AuthRequired {
		api.Use(auth.RequireOperator())
	}

	staff := api.Group("/staff")
	staff.Get("/", cfg.Staff.List)
	staff.Post("/", cfg.Staff.Create)
	staff.Get("/:id", cfg.Staff.Get)
	staff.Patch("/:id", cfg.Staff.Update)
	staff.Delete("/:id", cfg.Staff.Delete)

	objects := api.Group("/objects")
	objects.Get("/", cfg.Objects.List)
	objects.Post("/", cfg.Objects.Create)
	objects.Get("/:id", cfg.Objects.Get)
	objects.Patch("/:id", cfg.Objects.Update)
	objects.Delete("/:id", cfg.Objects.Delete)

	api.Get("/changes", cfg.Changes.List)

	session := api.Group("/session")
	session.Get("/", cfg.Session.Snapshot)
	session.Get("/prompt", cfg.Session.Prompt)
	session.Post("/mount", cfg.Session.Mount)
	session.Post("/unmount", cfg.Session.Unmount)
	session.Post("/refresh", cfg.Session.Refresh)
	session.Post("/pointer/move", cfg.Session.PointerMove)
	session.Post("/pointer/activate", cfg.Session.PointerActivate)
	session.Post("/select", cfg.Session.Select)
	session.Post("/placement", cfg.Session.RequestPlacement)
	session.Post("/placement/resolve", cfg.Session.ResolvePlacement)
	session.Post("/placement/cancel", cfg.Session.CancelPlacement)
	session.Post("/drag/start", cfg.Session.StartDrag)
	session.Post("/drag/move", cfg.Session.MoveDrag)
	session.Post("/drag/release", cfg.Session.ReleaseDrag)
	session.Post("/drag/commit", cfg.Session.CommitDrag)
	session.Delete("/objects/:id", cfg.Session.DeleteObject)
	session.Post("/camera/orbit", cfg.Session.Orbit)
	session.Post("/camera/focus", cfg.Session.Focus)
	session.Post("/camera/tick", cfg.Session.Tick)
}
