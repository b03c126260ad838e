// Package workflows contains the delay-monitoring workflow. The workflow
// body is replay-deterministic: timestamps come from workflow.Now and all
// I/O happens inside activities.
package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/routeops/delay-monitor/internal/activities"
	"github.com/routeops/delay-monitor/internal/delay"
)

const TaskQueue = "delay-monitoring"

// Workflow-level bounds applied at start; exceeding either is terminal.
const (
	ExecutionTimeout = 10 * time.Minute
	RunTimeout       = 5 * time.Minute
)

// MonitorInput is the caller-supplied payload for one monitoring run.
type MonitorInput struct {
	Route    activities.DeliveryRoute  `json:"route"`
	Customer activities.CustomerInfo   `json:"customer"`
	Config   activities.WorkflowConfig `json:"config"`
}

// MonitorResult is the terminal workflow output.
type MonitorResult struct {
	DelayDetected    bool      `json:"delay_detected"`
	DelayMinutes     int       `json:"delay_minutes"`
	NotificationSent bool      `json:"notification_sent"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	CompletedAt      time.Time `json:"completed_at"`
}

// FailureDetails travels inside the WorkflowExecutionError so operators
// can attribute a failed run without digging through history.
type FailureDetails struct {
	RouteID        string  `json:"route_id"`
	CustomerID     string  `json:"customer_id"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

var (
	trafficRetryPolicy = &temporal.RetryPolicy{
		InitialInterval:    2 * time.Second,
		BackoffCoefficient: 2.0,
		MaximumInterval:    30 * time.Second,
		MaximumAttempts:    5,
		NonRetryableErrorTypes: []string{
			activities.ErrTypeAuthentication,
			activities.ErrTypeInvalidRoute,
		},
	}

	messageRetryPolicy = &temporal.RetryPolicy{
		InitialInterval:    3 * time.Second,
		BackoffCoefficient: 2.0,
		MaximumInterval:    60 * time.Second,
		MaximumAttempts:    4,
		NonRetryableErrorTypes: []string{
			activities.ErrTypeAuthentication,
			activities.ErrTypeQuotaExceeded,
		},
	}

	emailRetryPolicy = &temporal.RetryPolicy{
		InitialInterval:    5 * time.Second,
		BackoffCoefficient: 2.0,
		MaximumInterval:    120 * time.Second,
		MaximumAttempts:    6,
		NonRetryableErrorTypes: []string{
			activities.ErrTypeAuthentication,
			activities.ErrTypeInvalidEmail,
		},
	}
)

// DelayMonitorWorkflow checks a route's live traffic against its baseline
// and, when the delay exceeds the configured threshold, generates a
// personalized message and emails the customer.
//
// Traffic failures (after retries) are fatal. Message generation cannot
// fail: it falls back to the configured template. Email delivery bifurcates:
// permanent rejections complete the workflow with NotificationSent=false,
// while exhausted transient failures fail it.
func DelayMonitorWorkflow(ctx workflow.Context, input MonitorInput) (*MonitorResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting delay monitor workflow",
		"route_id", input.Route.RouteID,
		"customer_id", input.Customer.CustomerID,
	)

	startTime := workflow.Now(ctx)

	fatal := func(cause error) error {
		elapsed := workflow.Now(ctx).Sub(startTime).Seconds()
		return temporal.NewApplicationErrorWithCause(
			fmt.Sprintf("delay monitoring failed for route %s: %v", input.Route.RouteID, cause),
			"WorkflowExecutionError",
			cause,
			FailureDetails{
				RouteID:        input.Route.RouteID,
				CustomerID:     input.Customer.CustomerID,
				ElapsedSeconds: elapsed,
			},
		)
	}

	if err := validateInput(input); err != nil {
		return nil, fatal(temporal.NewNonRetryableApplicationError(err.Error(), activities.ErrTypeValidation, err))
	}

	trafficCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 60 * time.Second,
		RetryPolicy:         trafficRetryPolicy,
	})
	messageCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 90 * time.Second,
		RetryPolicy:         messageRetryPolicy,
	})
	emailCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 120 * time.Second,
		RetryPolicy:         emailRetryPolicy,
	})
	metricsCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
	})

	var a *activities.Activities

	recordMetrics := func(result *MonitorResult, outcome, severity, failureReason string) {
		duration := workflow.Now(ctx).Sub(startTime).Seconds()
		_ = workflow.ExecuteActivity(metricsCtx, activities.RecordMonitorMetrics, activities.RecordMetricsInput{
			RouteID:          input.Route.RouteID,
			Outcome:          outcome,
			DelayMinutes:     result.DelayMinutes,
			Severity:         severity,
			NotificationSent: result.NotificationSent,
			DurationSecs:     duration,
			FailureReason:    failureReason,
		}).Get(ctx, nil)
	}

	var snapshot activities.TrafficSnapshot
	if err := workflow.ExecuteActivity(trafficCtx, a.GetTrafficData, activities.GetTrafficInput{
		Route: input.Route,
	}).Get(ctx, &snapshot); err != nil {
		logger.Error("Traffic fetch failed", "route_id", input.Route.RouteID, "error", err)
		return nil, fatal(err)
	}

	// Delay analysis is pure computation; no activity boundary needed.
	delayMinutes, err := delay.Compute(snapshot.CurrentTravelTimeMinutes, input.Route.BaselineTimeMinutes)
	if err != nil {
		return nil, fatal(err)
	}

	if delay.Drift(delayMinutes, snapshot.DelayMinutes) {
		// Consistency check only; the recomputed value is authoritative.
		logger.Warn("Recomputed delay disagrees with provider-reported delay",
			"route_id", input.Route.RouteID,
			"recomputed", delayMinutes,
			"reported", snapshot.DelayMinutes,
		)
	}

	exceeds, err := delay.ExceedsThreshold(delayMinutes, input.Config.DelayThresholdMinutes)
	if err != nil {
		return nil, fatal(err)
	}

	severity := delay.Classify(delayMinutes)
	logger.Info("Delay analyzed",
		"route_id", input.Route.RouteID,
		"delay_minutes", delayMinutes,
		"severity", string(severity),
		"threshold", input.Config.DelayThresholdMinutes,
		"exceeds", exceeds,
	)

	if !exceeds {
		result := &MonitorResult{
			DelayDetected:    false,
			DelayMinutes:     delayMinutes,
			NotificationSent: false,
			CompletedAt:      workflow.Now(ctx),
		}
		recordMetrics(result, "no_notification", "", "")
		return result, nil
	}

	notification := activities.DelayNotification{
		CustomerID:    input.Customer.CustomerID,
		CustomerEmail: input.Customer.CustomerEmail,
		Route:         input.Route,
		DelayMinutes:  delayMinutes,
	}

	var genResult activities.GenerateMessageResult
	if err := workflow.ExecuteActivity(messageCtx, a.GenerateDelayMessage, activities.GenerateMessageInput{
		Notification:     notification,
		FallbackTemplate: input.Config.FallbackMessage,
	}).Get(ctx, &genResult); err != nil {
		// Generation absorbs provider failures internally; an error here
		// means the notification itself was malformed.
		logger.Error("Message generation failed", "route_id", input.Route.RouteID, "error", err)
		return nil, fatal(err)
	}
	notification.Message = genResult.Message

	var sendResult activities.SendEmailResult
	if err := workflow.ExecuteActivity(emailCtx, a.SendEmailNotification, activities.SendEmailInput{
		Notification: notification,
	}).Get(ctx, &sendResult); err != nil {
		logger.Error("Email delivery failed", "route_id", input.Route.RouteID, "error", err)
		return nil, fatal(err)
	}

	result := &MonitorResult{
		DelayDetected:    true,
		DelayMinutes:     delayMinutes,
		NotificationSent: sendResult.Sent,
		CompletedAt:      workflow.Now(ctx),
	}

	if !sendResult.Sent {
		result.ErrorMessage = fmt.Sprintf("notification not delivered: %s", sendResult.Reason)
		logger.Warn("Completed without delivering notification",
			"route_id", input.Route.RouteID,
			"reason", sendResult.Reason,
		)
		recordMetrics(result, "notification_failed", string(severity), sendResult.Reason)
		return result, nil
	}

	logger.Info("Delay notification delivered",
		"route_id", input.Route.RouteID,
		"customer_id", input.Customer.CustomerID,
		"delay_minutes", delayMinutes,
	)
	recordMetrics(result, "notification_sent", string(severity), "")
	return result, nil
}

func validateInput(input MonitorInput) error {
	if err := activities.ValidateRoute(input.Route); err != nil {
		return err
	}
	if err := activities.ValidateCustomer(input.Customer); err != nil {
		return err
	}
	return activities.ValidateConfig(input.Config)
}
