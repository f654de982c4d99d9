package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/jobsabroad-web/internal/api/http"
	"github.com/spec-kit/jobsabroad-web/internal/api/http/handlers"
	"github.com/spec-kit/jobsabroad-web/internal/backend"
	"github.com/spec-kit/jobsabroad-web/internal/config"
	"github.com/spec-kit/jobsabroad-web/internal/gate"
	"github.com/spec-kit/jobsabroad-web/internal/observability"
	"github.com/spec-kit/jobsabroad-web/internal/reconcile"
	"github.com/spec-kit/jobsabroad-web/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	var sessionBackend session.Backend
	if cfg.Redis.Addr == "" {
		logger.Warn("REDIS_ADDR empty, using in-memory sessions")
		sessionBackend = session.NewMemoryBackend()
	} else {
		redisBackend := session.NewRedisBackend(cfg.Redis, logger)
		defer redisBackend.Close()
		sessionBackend = redisBackend
	}
	sessions := session.NewStore(sessionBackend)

	client := backend.NewClient(cfg.Backend, logger)
	accessGate := gate.New(client, cfg.Gate, logger)
	flow := reconcile.New(client, sessions, cfg.Reconcile, logger)
	metrics := observability.NewMetrics()

	renderer, err := handlers.NewRenderer()
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, renderer, cfg.App.RequestTimeout())

	guards := httptransport.NewGuards(accessGate, sessions, metrics, logger)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, sessions),
		Pages:     handlers.NewPagesHandler(renderer, client, accessGate, sessions, logger),
		Auth:      handlers.NewAuthHandler(renderer, client, sessions, logger),
		Apply:     handlers.NewApplyHandler(renderer, client, sessions, logger),
		Payment:   handlers.NewPaymentHandler(renderer, client, sessions, logger),
		Return:    handlers.NewReturnHandler(renderer, flow, sessions, logger),
		Dashboard: handlers.NewDashboardHandler(renderer, client, sessions, logger),
		Sites:     handlers.NewSitesHandler(renderer, client, sessions, logger),
		Guards:    guards,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
