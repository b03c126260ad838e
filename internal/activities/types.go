package activities

import "time"

// DeliveryRoute describes one monitored route. Created by the caller before
// workflow start and never mutated.
type DeliveryRoute struct {
	RouteID             string `json:"route_id"`
	Origin              string `json:"origin"`
	Destination         string `json:"destination"`
	BaselineTimeMinutes int    `json:"baseline_time_minutes"`
}

// CustomerInfo identifies the notification recipient.
type CustomerInfo struct {
	CustomerID    string `json:"customer_id"`
	CustomerEmail string `json:"customer_email"`
}

// WorkflowConfig carries the per-execution tuning knobs. RetryAttempts is
// informational; actual retries are governed by the per-activity policies.
type WorkflowConfig struct {
	DelayThresholdMinutes int    `json:"delay_threshold_minutes"`
	RetryAttempts         int    `json:"retry_attempts"`
	FallbackMessage       string `json:"fallback_message"`
}

// TrafficSnapshot is the normalized result of one traffic lookup.
type TrafficSnapshot struct {
	CurrentTravelTimeMinutes int       `json:"current_travel_time_minutes"`
	DelayMinutes             int       `json:"delay_minutes"`
	TrafficConditions        string    `json:"traffic_conditions"`
	RetrievedAt              time.Time `json:"retrieved_at"`
}

// DelayNotification is the record handed through the notification leg of
// the workflow. Message starts empty and is filled by message generation;
// SentAt is set by delivery on success.
type DelayNotification struct {
	CustomerID    string        `json:"customer_id"`
	CustomerEmail string        `json:"customer_email"`
	Route         DeliveryRoute `json:"route"`
	DelayMinutes  int           `json:"delay_minutes"`
	Message       string        `json:"message"`
	SentAt        *time.Time    `json:"sent_at,omitempty"`
}

type GetTrafficInput struct {
	Route DeliveryRoute `json:"route"`
}

type GenerateMessageInput struct {
	Notification     DelayNotification `json:"notification"`
	FallbackTemplate string            `json:"fallback_template"`
}

// GenerateMessageResult reports the message text and which path produced
// it ("ai" or "fallback").
type GenerateMessageResult struct {
	Message string `json:"message"`
	Source  string `json:"source"`
}

type SendEmailInput struct {
	Notification DelayNotification `json:"notification"`
}

// SendEmailResult distinguishes "delivered" from "gave up on bad data".
// Transient failures never produce a result; they surface as retryable
// errors instead.
type SendEmailResult struct {
	Sent      bool       `json:"sent"`
	Reason    string     `json:"reason,omitempty"`
	MessageID string     `json:"message_id,omitempty"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

type RecordMetricsInput struct {
	RouteID          string  `json:"route_id"`
	Outcome          string  `json:"outcome"`
	DelayMinutes     int     `json:"delay_minutes"`
	Severity         string  `json:"severity,omitempty"`
	NotificationSent bool    `json:"notification_sent"`
	DurationSecs     float64 `json:"duration_secs"`
	FailureReason    string  `json:"failure_reason,omitempty"`
}
