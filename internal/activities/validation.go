package activities

import (
	"fmt"
	"regexp"
	"strings"
)

// emailPattern is applied at every entry point that handles a customer
// email: client call, workflow input, and notification send.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether addr looks like local@domain.tld.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// ValidateRoute checks the DeliveryRoute invariants.
func ValidateRoute(route DeliveryRoute) error {
	if strings.TrimSpace(route.RouteID) == "" {
		return fmt.Errorf("route id is required")
	}
	if strings.TrimSpace(route.Origin) == "" {
		return fmt.Errorf("route %s: origin is required", route.RouteID)
	}
	if strings.TrimSpace(route.Destination) == "" {
		return fmt.Errorf("route %s: destination is required", route.RouteID)
	}
	if route.BaselineTimeMinutes <= 0 {
		return fmt.Errorf("route %s: baseline time must be positive, got %d",
			route.RouteID, route.BaselineTimeMinutes)
	}
	return nil
}

// ValidateCustomer checks the CustomerInfo invariants.
func ValidateCustomer(customer CustomerInfo) error {
	if strings.TrimSpace(customer.CustomerID) == "" {
		return fmt.Errorf("customer id is required")
	}
	if !ValidEmail(customer.CustomerEmail) {
		return fmt.Errorf("customer %s: invalid email address %q",
			customer.CustomerID, customer.CustomerEmail)
	}
	return nil
}

// ValidateConfig checks the WorkflowConfig invariants, including the
// recognized placeholders in the fallback template.
func ValidateConfig(cfg WorkflowConfig) error {
	if cfg.DelayThresholdMinutes <= 0 {
		return fmt.Errorf("delay threshold must be positive, got %d", cfg.DelayThresholdMinutes)
	}
	if cfg.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts must be non-negative, got %d", cfg.RetryAttempts)
	}
	if strings.TrimSpace(cfg.FallbackMessage) == "" {
		return fmt.Errorf("fallback message template is required")
	}
	return nil
}

// ValidateNotification checks a DelayNotification. The message field is
// checked only when requireMessage is set: generation ignores it on input,
// delivery requires it to be populated.
func ValidateNotification(n DelayNotification, requireMessage bool) error {
	if strings.TrimSpace(n.CustomerID) == "" {
		return fmt.Errorf("notification: customer id is required")
	}
	if !ValidEmail(n.CustomerEmail) {
		return fmt.Errorf("notification: invalid email address %q", n.CustomerEmail)
	}
	if err := ValidateRoute(n.Route); err != nil {
		return fmt.Errorf("notification: %w", err)
	}
	if n.DelayMinutes < 0 {
		return fmt.Errorf("notification: delay must be non-negative, got %d", n.DelayMinutes)
	}
	if requireMessage && strings.TrimSpace(n.Message) == "" {
		return fmt.Errorf("notification: message is empty")
	}
	return nil
}
