// Package activities implements the workflow activities: traffic lookup,
// delay message generation, and email delivery. Each activity owns the
// translation from provider errors to the retryable/terminal error types
// the workflow's retry policies key on.
package activities

import (
	"errors"

	"go.temporal.io/sdk/temporal"

	"github.com/routeops/delay-monitor/internal/providers"
)

// Application-error types referenced by the workflow retry policies.
const (
	ErrTypeValidation     = "ValidationError"
	ErrTypeInvalidRoute   = "InvalidRouteError"
	ErrTypeInvalidEmail   = "InvalidEmailError"
	ErrTypeAuthentication = "AuthenticationError"
	ErrTypeProviderData   = "ProviderDataError"
	ErrTypeQuotaExceeded  = "QuotaExceededError"
	ErrTypeTransient      = "TransientProviderError"
)

// SenderIdentity is the configured from-address for outbound email.
type SenderIdentity struct {
	Email string
	Name  string
}

// Activities bundles the provider capabilities the activity methods call.
// A nil generator selects the deterministic fallback path for all
// messages.
type Activities struct {
	traffic   providers.TrafficProvider
	generator providers.MessageGenerator
	mailer    providers.EmailSender
	sender    SenderIdentity
}

func New(traffic providers.TrafficProvider, generator providers.MessageGenerator, mailer providers.EmailSender, sender SenderIdentity) *Activities {
	return &Activities{
		traffic:   traffic,
		generator: generator,
		mailer:    mailer,
		sender:    sender,
	}
}

// classifyProviderError maps a provider error onto the workflow error
// taxonomy. Terminal classes come back as non-retryable application
// errors; everything else is returned as a retryable transient error.
func classifyProviderError(err error) error {
	var authErr *providers.AuthError
	if errors.As(err, &authErr) {
		return temporal.NewNonRetryableApplicationError(authErr.Error(), ErrTypeAuthentication, err)
	}
	var dataErr *providers.DataError
	if errors.As(err, &dataErr) {
		if dataErr.Quota {
			return temporal.NewNonRetryableApplicationError(dataErr.Error(), ErrTypeQuotaExceeded, err)
		}
		return temporal.NewNonRetryableApplicationError(dataErr.Error(), ErrTypeProviderData, err)
	}
	return temporal.NewApplicationError(err.Error(), ErrTypeTransient)
}
