package activities

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/routeops/delay-monitor/internal/providers"
)

// SendEmailNotification renders and sends the delay email. Bad data
// (validation failure, provider 4xx other than 429) produces a soft
// Sent=false result; transient failures raise so the engine retries.
func (a *Activities) SendEmailNotification(ctx context.Context, input SendEmailInput) (*SendEmailResult, error) {
	n := input.Notification

	ctx, span := otel.Tracer("activities").Start(ctx, "send_email_notification",
		trace.WithAttributes(
			attribute.String("route.id", n.Route.RouteID),
			attribute.String("customer.id", n.CustomerID),
			attribute.Int("delay.minutes", n.DelayMinutes),
		),
	)
	defer span.End()

	// Validation failure is "bad data, give up", not "transient, retry":
	// the last link in the pipeline is best effort.
	if err := ValidateNotification(n, true); err != nil {
		span.SetStatus(codes.Error, "notification validation failed")
		span.RecordError(err)
		slog.WarnContext(ctx, "notification rejected before send",
			slog.String("route_id", n.Route.RouteID),
			slog.String("error", err.Error()),
		)
		return &SendEmailResult{Sent: false, Reason: err.Error()}, nil
	}

	msg := providers.EmailMessage{
		ToEmail:   n.CustomerEmail,
		ToName:    "Customer " + n.CustomerID,
		FromEmail: a.sender.Email,
		FromName:  a.sender.Name,
		Subject:   "Delivery Delay Update - Route " + n.Route.RouteID,
		TextBody:  renderTextBody(n),
		HTMLBody:  renderHTMLBody(n),
	}

	receipt, err := a.mailer.Send(ctx, msg)
	if err != nil {
		span.SetStatus(codes.Error, "email send failed")
		span.RecordError(err)
		if providers.Retryable(err) {
			return nil, classifyProviderError(err)
		}
		slog.WarnContext(ctx, "email rejected by provider",
			slog.String("route_id", n.Route.RouteID),
			slog.String("error", err.Error()),
		)
		return &SendEmailResult{Sent: false, Reason: err.Error()}, nil
	}

	sentAt := time.Now().UTC()
	span.SetAttributes(
		attribute.Bool("email.sent", true),
		attribute.String("email.message_id", receipt.MessageID),
	)
	slog.InfoContext(ctx, "delay notification sent",
		slog.String("route_id", n.Route.RouteID),
		slog.String("customer_id", n.CustomerID),
		slog.String("message_id", receipt.MessageID),
		slog.Int("status_code", receipt.StatusCode),
	)

	return &SendEmailResult{
		Sent:      true,
		MessageID: receipt.MessageID,
		SentAt:    &sentAt,
	}, nil
}

func renderTextBody(n DelayNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Delivery Delay Update\n\n")
	fmt.Fprintf(&b, "%s\n\n", n.Message)
	fmt.Fprintf(&b, "Route: %s\n", n.Route.RouteID)
	fmt.Fprintf(&b, "From: %s\n", n.Route.Origin)
	fmt.Fprintf(&b, "To: %s\n", n.Route.Destination)
	fmt.Fprintf(&b, "Expected travel time: %d minutes\n", n.Route.BaselineTimeMinutes)
	fmt.Fprintf(&b, "Current delay: %d minutes\n", n.DelayMinutes)
	return b.String()
}

func renderHTMLBody(n DelayNotification) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString("<h2>Delivery Delay Update</h2>")
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(n.Message))
	b.WriteString("<table>")
	fmt.Fprintf(&b, "<tr><td>Route</td><td>%s</td></tr>", html.EscapeString(n.Route.RouteID))
	fmt.Fprintf(&b, "<tr><td>From</td><td>%s</td></tr>", html.EscapeString(n.Route.Origin))
	fmt.Fprintf(&b, "<tr><td>To</td><td>%s</td></tr>", html.EscapeString(n.Route.Destination))
	fmt.Fprintf(&b, "<tr><td>Expected travel time</td><td>%d minutes</td></tr>", n.Route.BaselineTimeMinutes)
	fmt.Fprintf(&b, "<tr><td>Current delay</td><td><strong>%d minutes</strong></td></tr>", n.DelayMinutes)
	b.WriteString("</table>")
	b.WriteString("</body></html>")
	return b.String()
}
