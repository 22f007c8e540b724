package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/admin-console/internal/api/http"
	"github.com/spec-kit/admin-console/internal/api/http/handlers"
	"github.com/spec-kit/admin-console/internal/auth"
	"github.com/spec-kit/admin-console/internal/config"
	"github.com/spec-kit/admin-console/internal/events"
	"github.com/spec-kit/admin-console/internal/gateway"
	"github.com/spec-kit/admin-console/internal/observability"
	"github.com/spec-kit/admin-console/internal/persistence"
	"github.com/spec-kit/admin-console/internal/repository"
	"github.com/spec-kit/admin-console/internal/service"
	"github.com/spec-kit/admin-console/internal/worker"
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

	metrics := observability.NewMetrics()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	sessionRepo := repository.NewSessionRepository(redis.Client)
	gatewayClient := gateway.NewClient(cfg.Gateway.URL, cfg.Gateway.Timeout(), logger, metrics)
	dispatcher := events.NewInMemoryDispatcher()

	sessionService := service.NewSessionService(service.SessionDependencies{
		Gateway:     gatewayClient,
		SessionRepo: sessionRepo,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
	}, cfg.Auth.SessionTTL(), logger)
	dashboardService := service.NewDashboardService(gatewayClient, sessionService, dispatcher, logger)
	reportService := service.NewReportService(gatewayClient, sessionService, dispatcher, cfg.Report, logger)
	noticeService := service.NewNoticeService(dispatcher, logger)
	worker.StartNoticeWorker(noticeService)
	worker.StartCacheInvalidator(dashboardService, reportService)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	authMiddleware := auth.NewAuthMiddleware(tokenManager, sessionService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis),
		Auth:           handlers.NewAuthHandler(sessionService, tokenManager),
		Dashboard:      handlers.NewDashboardHandler(dashboardService, sessionService),
		Reports:        handlers.NewReportsHandler(reportService),
		Notices:        handlers.NewNoticesHandler(noticeService),
		AuthMiddleware: authMiddleware,
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
