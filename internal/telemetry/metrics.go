package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter       metric.Meter
	metricsOnce sync.Once

	monitorsProcessed    metric.Int64Counter
	delaysDetected       metric.Int64Counter
	notificationsSent    metric.Int64Counter
	notificationFailures metric.Int64Counter

	monitorDuration metric.Float64Histogram
	delayMinutes    metric.Int64Histogram
)

func initMetrics() {
	meter = otel.Meter("delay-monitoring")

	var err error

	monitorsProcessed, err = meter.Int64Counter("monitors.processed",
		metric.WithDescription("Total number of delay-monitoring runs completed"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		panic(err)
	}

	delaysDetected, err = meter.Int64Counter("monitors.delays_detected",
		metric.WithDescription("Number of runs where the delay exceeded the threshold"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		panic(err)
	}

	notificationsSent, err = meter.Int64Counter("notifications.sent",
		metric.WithDescription("Number of delay notifications delivered"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		panic(err)
	}

	notificationFailures, err = meter.Int64Counter("notifications.failed",
		metric.WithDescription("Number of delay notifications that could not be delivered"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		panic(err)
	}

	monitorDuration, err = meter.Float64Histogram("monitors.duration",
		metric.WithDescription("End-to-end duration of a monitoring run"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		panic(err)
	}

	delayMinutes, err = meter.Int64Histogram("monitors.delay_minutes",
		metric.WithDescription("Observed route delay in minutes"),
		metric.WithUnit("min"),
		metric.WithExplicitBucketBoundaries(0, 5, 10, 15, 20, 30, 45, 60, 90, 120),
	)
	if err != nil {
		panic(err)
	}
}

func ensureMetrics() {
	metricsOnce.Do(initMetrics)
}

func RecordMonitorProcessed(ctx context.Context, outcome string) {
	ensureMetrics()
	monitorsProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func RecordDelayDetected(ctx context.Context, severity string) {
	ensureMetrics()
	delaysDetected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("severity", severity),
	))
}

func RecordNotificationSent(ctx context.Context) {
	ensureMetrics()
	notificationsSent.Add(ctx, 1)
}

func RecordNotificationFailed(ctx context.Context, reason string) {
	ensureMetrics()
	notificationFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

func RecordMonitorDuration(ctx context.Context, durationSeconds float64, outcome string) {
	ensureMetrics()
	monitorDuration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func RecordDelayMinutes(ctx context.Context, minutes int) {
	ensureMetrics()
	delayMinutes.Record(ctx, int64(minutes))
}
