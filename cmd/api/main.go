package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/routeops/delay-monitor/config"
	"github.com/routeops/delay-monitor/internal/database"
	"github.com/routeops/delay-monitor/internal/handlers"
	"github.com/routeops/delay-monitor/pkg/telemetry"
	pkgtemporal "github.com/routeops/delay-monitor/pkg/temporal"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    cfg.OTelServiceName + "-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		Endpoint:       cfg.OTelEndpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(ctx); err != nil {
			slog.Error("failed to shutdown telemetry", slog.String("error", err.Error()))
		}
	}()

	db, err := database.New(database.Config{
		DatabaseURL:  cfg.DatabaseURL,
		Debug:        cfg.IsDevelopment(),
		MaxOpenConns: 25,
		MaxIdleConns: 5,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if cfg.IsDevelopment() {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	temporalClient, err := pkgtemporal.NewClient(pkgtemporal.ClientConfig{
		HostPort:  cfg.TemporalHost,
		Namespace: cfg.TemporalNamespace,
	})
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(otelecho.Middleware(cfg.OTelServiceName))
	e.Use(middleware.Recover())

	healthHandler := handlers.NewHealthHandler(db)
	routeHandler := handlers.NewRouteHandler(db)
	monitorHandler := handlers.NewMonitorHandler(db, temporalClient, cfg.TemporalTaskQueue, handlers.MonitorDefaults{
		ThresholdMinutes: cfg.DelayThresholdMinutes,
		RetryAttempts:    cfg.RetryAttempts,
		FallbackTemplate: cfg.FallbackTemplate,
	})

	e.GET("/health", healthHandler.Check)

	api := e.Group("/api/v1")
	api.POST("/routes", routeHandler.Create)
	api.GET("/routes", routeHandler.List)
	api.GET("/routes/:id", routeHandler.Get)
	api.POST("/monitors", monitorHandler.Start)
	api.GET("/monitors", monitorHandler.List)
	api.GET("/monitors/:id", monitorHandler.Get)
	api.GET("/monitors/:id/result", monitorHandler.Result)
	api.POST("/monitors/:id/cancel", monitorHandler.Cancel)
	api.POST("/monitors/:id/terminate", monitorHandler.Terminate)

	serverErr := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	slog.Info("delay monitor API listening",
		slog.String("port", cfg.Port),
		slog.String("environment", cfg.Environment),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-sigCh:
	}

	slog.Info("shutting down delay monitor API")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
