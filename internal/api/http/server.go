package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/placement-studio/internal/api/http/handlers"
	"github.com/spec-kit/placement-studio/internal/auth"
	"github.com/spec-kit/placement-studio/internal/config"
	"github.com/spec-kit/placement-studio/internal/interaction"
	"github.com/spec-kit/placement-studio/internal/observability"
	"github.com/spec-kit/placement-studio/internal/persistence"
	"github.com/spec-kit/placement-studio/internal/service"
)

// ServerDependencies bundles everything the HTTP shell serves.
type ServerDependencies struct {
	Config  config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Backend *persistence.Backend
	Store   *service.EntityStore
	Auth    *service.AuthService
	Audit   *service.AuditService
	Session *interaction.Session
}

// NewServer builds the fiber app with middlewares and routes.
func NewServer(deps ServerDependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               deps.Config.App.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, deps.Logger, deps.Metrics, deps.Config.App.RequestTimeout())

	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(deps.Config.App.Name, deps.Config.App.Version, deps.Backend.Name, deps.Backend.Gateway),
		Auth:           handlers.NewAuthHandler(deps.Auth),
		Staff:          handlers.NewStaffHandler(deps.Store),
		Objects:        handlers.NewObjectsHandler(deps.Store),
		Session:        handlers.NewSessionHandler(deps.Session),
		Changes:        handlers.NewChangesHandler(deps.Audit),
		AuthMiddleware: auth.NewAuthMiddleware(deps.Auth.TokenManager()),
		AuthRequired:   deps.Config.Auth.Required,
	})
	return app
}
