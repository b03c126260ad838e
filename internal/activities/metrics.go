package activities

import (
	"context"

	"github.com/routeops/delay-monitor/internal/telemetry"
)

// RecordMonitorMetrics is a free function (no provider dependencies) so the
// worker can register it independently of the Activities struct.
func RecordMonitorMetrics(ctx context.Context, input RecordMetricsInput) error {
	telemetry.RecordMonitorProcessed(ctx, input.Outcome)
	telemetry.RecordDelayMinutes(ctx, input.DelayMinutes)

	if input.Severity != "" {
		telemetry.RecordDelayDetected(ctx, input.Severity)
	}

	if input.NotificationSent {
		telemetry.RecordNotificationSent(ctx)
	} else if input.FailureReason != "" {
		telemetry.RecordNotificationFailed(ctx, input.FailureReason)
	}

	if input.DurationSecs > 0 {
		telemetry.RecordMonitorDuration(ctx, input.DurationSecs, input.Outcome)
	}

	return nil
}
