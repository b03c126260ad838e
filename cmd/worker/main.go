package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/routeops/delay-monitor/config"
	"github.com/routeops/delay-monitor/internal/activities"
	"github.com/routeops/delay-monitor/internal/providers"
	"github.com/routeops/delay-monitor/internal/providers/gemini"
	"github.com/routeops/delay-monitor/internal/providers/gmaps"
	"github.com/routeops/delay-monitor/internal/providers/sendgrid"
	"github.com/routeops/delay-monitor/internal/providers/sim"
	"github.com/routeops/delay-monitor/internal/workflows"
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
		ServiceName:    cfg.OTelServiceName + "-worker",
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

	temporalClient, err := pkgtemporal.NewClient(pkgtemporal.ClientConfig{
		HostPort:  cfg.TemporalHost,
		Namespace: cfg.TemporalNamespace,
	})
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w, err := pkgtemporal.NewWorker(temporalClient, pkgtemporal.WorkerConfig{
		TaskQueue:               cfg.TemporalTaskQueue,
		MaxConcurrentActivities: cfg.MaxConcurrentActivities,
		MaxConcurrentWorkflows:  cfg.MaxConcurrentWorkflows,
	})
	if err != nil {
		return fmt.Errorf("failed to create Temporal worker: %w", err)
	}

	acts, err := buildActivities(cfg)
	if err != nil {
		return err
	}

	w.RegisterWorkflow(workflows.DelayMonitorWorkflow)
	w.RegisterActivity(acts)
	w.RegisterActivity(activities.RecordMonitorMetrics)

	slog.Info("starting delay monitor worker",
		slog.String("temporal_host", cfg.TemporalHost),
		slog.String("task_queue", cfg.TemporalTaskQueue),
		slog.String("environment", cfg.Environment),
		slog.Bool("simulation_mode", cfg.SimulationMode),
	)

	workerErr := make(chan error, 1)
	go func() {
		if err := w.Run(nil); err != nil {
			workerErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("delay monitor worker is running, waiting for tasks...")

	select {
	case err := <-workerErr:
		return fmt.Errorf("worker error: %w", err)
	case <-sigCh:
	}

	slog.Info("shutting down delay monitor worker")
	w.Stop()

	return nil
}

func buildActivities(cfg *config.Config) (*activities.Activities, error) {
	sender := activities.SenderIdentity{
		Email: cfg.SenderEmail,
		Name:  cfg.SenderName,
	}

	if cfg.SimulationMode {
		slog.Warn("simulation mode enabled, using simulated providers")
		return activities.New(
			sim.NewTraffic(sim.LoadConfig("SIM_TRAFFIC"), 30),
			sim.NewGenerator(sim.LoadConfig("SIM_GENERATOR")),
			sim.NewMailer(sim.LoadConfig("SIM_MAILER")),
			sender,
		), nil
	}

	traffic, err := gmaps.NewClient(cfg.MapsAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create traffic client: %w", err)
	}

	mailer, err := sendgrid.NewClient(cfg.SendGridAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create email client: %w", err)
	}

	// No generation credential means every message takes the fallback
	// path; the workflow still runs.
	var generator providers.MessageGenerator
	if cfg.GeminiAPIKey != "" {
		generator, err = gemini.NewClient(cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create generation client: %w", err)
		}
	} else {
		slog.Warn("no generation credential configured, using template fallback for all messages")
	}

	return activities.New(traffic, generator, mailer, sender), nil
}
