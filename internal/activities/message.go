package activities

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/temporal"
)

const (
	minGeneratedLength = 50
	maxGeneratedLength = 1000

	systemPrompt = "You are a customer service assistant for a delivery company. " +
		"You write short, warm, professional emails to customers about delivery delays."
)

// Keywords expected in an apologetic message. Absence is logged, never
// fatal.
var apologyKeywords = []string{"apologize", "sorry", "inconvenience", "patience", "understanding"}

// GenerateDelayMessage produces the customer-facing message for a delay
// notification. After input validation it cannot fail: any provider error
// or quality problem selects the deterministic fallback template.
func (a *Activities) GenerateDelayMessage(ctx context.Context, input GenerateMessageInput) (*GenerateMessageResult, error) {
	n := input.Notification

	ctx, span := otel.Tracer("activities").Start(ctx, "generate_delay_message",
		trace.WithAttributes(
			attribute.String("route.id", n.Route.RouteID),
			attribute.String("customer.id", n.CustomerID),
			attribute.Int("delay.minutes", n.DelayMinutes),
		),
	)
	defer span.End()

	if err := ValidateNotification(n, false); err != nil {
		span.RecordError(err)
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeValidation, err)
	}

	if a.generator == nil {
		span.SetAttributes(attribute.String("message.source", "fallback"))
		return &GenerateMessageResult{
			Message: GenerateFallbackMessage(n, input.FallbackTemplate),
			Source:  "fallback",
		}, nil
	}

	gen, err := a.generator.Generate(ctx, systemPrompt, buildPrompt(n))
	if err != nil {
		slog.WarnContext(ctx, "message generation failed, using fallback",
			slog.String("route_id", n.Route.RouteID),
			slog.String("error", err.Error()),
		)
		span.SetAttributes(attribute.String("message.source", "fallback"))
		return &GenerateMessageResult{
			Message: GenerateFallbackMessage(n, input.FallbackTemplate),
			Source:  "fallback",
		}, nil
	}

	text := strings.TrimSpace(gen.Text)
	slog.InfoContext(ctx, "message generated",
		slog.String("route_id", n.Route.RouteID),
		slog.Int("prompt_tokens", gen.PromptTokens),
		slog.Int("completion_tokens", gen.CompletionTokens),
		slog.Int("length", len(text)),
	)

	if len(text) < minGeneratedLength {
		slog.WarnContext(ctx, "generated message too short, using fallback",
			slog.String("route_id", n.Route.RouteID),
			slog.Int("length", len(text)),
		)
		span.SetAttributes(attribute.String("message.source", "fallback"))
		return &GenerateMessageResult{
			Message: GenerateFallbackMessage(n, input.FallbackTemplate),
			Source:  "fallback",
		}, nil
	}

	logQualityWarnings(ctx, n, text)

	span.SetAttributes(attribute.String("message.source", "ai"))
	return &GenerateMessageResult{Message: text, Source: "ai"}, nil
}

func buildPrompt(n DelayNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a delivery delay notification email for customer %s.\n\n", n.CustomerID)
	fmt.Fprintf(&b, "Delivery details:\n")
	fmt.Fprintf(&b, "- Route: %s\n", n.Route.RouteID)
	fmt.Fprintf(&b, "- From: %s\n", n.Route.Origin)
	fmt.Fprintf(&b, "- To: %s\n", n.Route.Destination)
	fmt.Fprintf(&b, "- Current delay: %d minutes\n\n", n.DelayMinutes)
	b.WriteString("Requirements:\n")
	b.WriteString("- Friendly, professional tone\n")
	b.WriteString("- Apologize for the delay and mention the delay duration\n")
	b.WriteString("- Reassure the customer that the delivery is on its way\n")
	b.WriteString("- Between 100 and 200 words\n")
	b.WriteString("- No placeholder tokens; use the concrete details above\n")
	b.WriteString("- End with a professional closing\n")
	return b.String()
}

func logQualityWarnings(ctx context.Context, n DelayNotification, text string) {
	if len(text) > maxGeneratedLength {
		slog.WarnContext(ctx, "generated message unusually long",
			slog.String("route_id", n.Route.RouteID),
			slog.Int("length", len(text)),
		)
	}
	if !strings.Contains(text, strconv.Itoa(n.DelayMinutes)) {
		slog.WarnContext(ctx, "generated message does not mention the delay amount",
			slog.String("route_id", n.Route.RouteID),
			slog.Int("delay_minutes", n.DelayMinutes),
		)
	}
	lower := strings.ToLower(text)
	for _, kw := range apologyKeywords {
		if strings.Contains(lower, kw) {
			return
		}
	}
	slog.WarnContext(ctx, "generated message lacks apologetic tone",
		slog.String("route_id", n.Route.RouteID),
	)
}

// GenerateFallbackMessage renders the configured template. It is a pure
// function of its inputs: the same notification and template always yield
// identical output.
func GenerateFallbackMessage(n DelayNotification, template string) string {
	msg := template
	msg = strings.ReplaceAll(msg, "{delayMinutes}", strconv.Itoa(n.DelayMinutes))
	msg = strings.ReplaceAll(msg, "{origin}", n.Route.Origin)
	msg = strings.ReplaceAll(msg, "{destination}", n.Route.Destination)
	if n.Route.RouteID != "" {
		msg += fmt.Sprintf("\n\nRoute Reference: %s", n.Route.RouteID)
	}
	return msg
}
