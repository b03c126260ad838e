package activities

import (
	"context"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/temporal"
)

// GetTrafficData fetches the current traffic-adjusted travel time for the
// route and normalizes it into a TrafficSnapshot. Route validation
// failures and provider auth/data errors are terminal; network and 5xx
// failures surface as retryable errors for the engine's retry policy.
func (a *Activities) GetTrafficData(ctx context.Context, input GetTrafficInput) (*TrafficSnapshot, error) {
	route := input.Route

	ctx, span := otel.Tracer("activities").Start(ctx, "get_traffic_data",
		trace.WithAttributes(
			attribute.String("route.id", route.RouteID),
			attribute.String("route.origin", route.Origin),
			attribute.String("route.destination", route.Destination),
			attribute.Int("route.baseline_minutes", route.BaselineTimeMinutes),
		),
	)
	defer span.End()

	if err := ValidateRoute(route); err != nil {
		span.SetStatus(codes.Error, "route validation failed")
		span.RecordError(err)
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidRoute, err)
	}

	travel, err := a.traffic.GetTravelTime(ctx, route.Origin, route.Destination)
	if err != nil {
		span.SetStatus(codes.Error, "traffic lookup failed")
		span.RecordError(err)
		slog.ErrorContext(ctx, "traffic lookup failed",
			slog.String("route_id", route.RouteID),
			slog.String("error", err.Error()),
		)
		return nil, classifyProviderError(err)
	}

	// Round up so a 29m10s trip counts as a full 30 minutes.
	currentMinutes := int(math.Ceil(travel.DurationWithTraffic.Minutes()))
	delayMinutes := currentMinutes - route.BaselineTimeMinutes
	if delayMinutes < 0 {
		delayMinutes = 0
	}

	snapshot := &TrafficSnapshot{
		CurrentTravelTimeMinutes: currentMinutes,
		DelayMinutes:             delayMinutes,
		TrafficConditions:        classifyConditions(delayMinutes),
		RetrievedAt:              time.Now().UTC(),
	}

	span.SetAttributes(
		attribute.Int("traffic.current_minutes", currentMinutes),
		attribute.Int("traffic.delay_minutes", delayMinutes),
		attribute.String("traffic.conditions", snapshot.TrafficConditions),
	)

	slog.InfoContext(ctx, "traffic data retrieved",
		slog.String("route_id", route.RouteID),
		slog.Int("current_minutes", currentMinutes),
		slog.Int("delay_minutes", delayMinutes),
		slog.String("conditions", snapshot.TrafficConditions),
	)

	return snapshot, nil
}

func classifyConditions(delayMinutes int) string {
	switch {
	case delayMinutes <= 0:
		return "Normal"
	case delayMinutes <= 15:
		return "Light"
	case delayMinutes <= 30:
		return "Moderate"
	default:
		return "Heavy"
	}
}
