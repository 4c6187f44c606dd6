package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/placement-studio/internal/api/http"
	"github.com/spec-kit/placement-studio/internal/config"
	"github.com/spec-kit/placement-studio/internal/events"
	"github.com/spec-kit/placement-studio/internal/interaction"
	"github.com/spec-kit/placement-studio/internal/observability"
	"github.com/spec-kit/placement-studio/internal/persistence"
	"github.com/spec-kit/placement-studio/internal/repository"
	"github.com/spec-kit/placement-studio/internal/scene"
	"github.com/spec-kit/placement-studio/internal/service"
	"github.com/spec-kit/placement-studio/internal/spatial"
	"github.com/spec-kit/placement-studio/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := persistence.OpenBackend(ctx, *cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage backend", zap.Error(err))
	}
	defer backend.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	var seed *service.SeedData
	if cfg.Storage.Seed {
		seed = service.DemoSeed()
	}
	store := service.NewEntityStore(service.StoreDependencies{
		StaffRepo:  repository.NewStaffRepository(backend.Gateway, cfg.Storage.KeyPrefix, logger),
		ObjectRepo: repository.NewObjectRepository(backend.Gateway, cfg.Storage.KeyPrefix, logger),
		Dispatcher: dispatcher,
		Logger:     logger,
		Seed:       seed,
	})

	auditService := service.NewAuditService(dispatcher, logger, cfg.Audit)
	worker.StartAuditWorker(ctx, auditService)

	authService, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to init operator auth", zap.Error(err))
	}

	camera := mgl64.Vec3{cfg.Scene.CameraX, cfg.Scene.CameraY, cfg.Scene.CameraZ}
	session := interaction.NewSession(interaction.SessionDependencies{
		Store:    store,
		Scene:    scene.NewProjection(spatial.NewRaycaster()),
		Orbit:    spatial.NewOrbit(camera, mgl64.Vec3{}, cfg.Scene.FovDegrees),
		Viewport: spatial.Viewport{Width: cfg.Scene.ViewportWidth, Height: cfg.Scene.ViewportHeight},
		Rules:    interaction.Rules{DoubleActivationWindow: cfg.Scene.DoubleActivationWindow()},
		Metrics:  metrics,
		Logger:   logger.Named("session"),
	})
	session.Subscribe(dispatcher)
	if err := session.Mount(ctx); err != nil {
		logger.Fatal("failed to mount session", zap.Error(err))
	}

	app := httptransport.NewServer(httptransport.ServerDependencies{
		Config:  *cfg,
		Logger:  logger,
		Metrics: metrics,
		Backend: backend,
		Store:   store,
		Auth:    authService,
		Audit:   auditService,
		Session: session,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("listening",
		zap.String("addr", cfg.App.Addr()),
		zap.String("storage", backend.Name),
	)

	waitForShutdown(logger)

	session.Unmount()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
