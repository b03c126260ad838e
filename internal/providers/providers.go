// Package providers defines the capability interfaces the delay-monitoring
// activities depend on, plus the error classification shared by the concrete
// HTTP adapters. Concrete implementations live in the subpackages (gmaps,
// gemini, sendgrid) and in sim for local development.
package providers

import (
	"context"
	"time"
)

// TravelTime is the normalized result of a traffic lookup for one
// origin/destination pair.
type TravelTime struct {
	// DurationWithTraffic is the traffic-adjusted travel time.
	DurationWithTraffic time.Duration
	// Status is the provider's per-pair status string, "OK" on success.
	Status string
}

// TrafficProvider resolves the current traffic-adjusted travel time between
// two addresses, departing now.
type TrafficProvider interface {
	GetTravelTime(ctx context.Context, origin, destination string) (*TravelTime, error)
}

// Generation carries generated text plus the provider's token accounting.
// Token counts are logged, never used in control flow.
type Generation struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// MessageGenerator produces customer-facing text from a system instruction
// and a user prompt.
type MessageGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (*Generation, error)
}

// EmailMessage is a fully rendered outbound email.
type EmailMessage struct {
	ToEmail   string
	ToName    string
	FromEmail string
	FromName  string
	Subject   string
	TextBody  string
	HTMLBody  string
}

// EmailReceipt reports a successful hand-off to the email provider.
type EmailReceipt struct {
	StatusCode int
	MessageID  string
}

// EmailSender delivers a rendered email through the email provider.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) (*EmailReceipt, error)
}
