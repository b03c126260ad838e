package activities_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/routeops/delay-monitor/internal/activities"
)

func TestValidEmail(t *testing.T) {
	valid := []string{
		"customer@example.com",
		"a.b+tag@sub.domain.io",
		"x@y.co",
	}
	for _, addr := range valid {
		require.True(t, activities.ValidEmail(addr), addr)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@domain",
		"user name@example.com",
		"user@ example.com",
	}
	for _, addr := range invalid {
		require.False(t, activities.ValidEmail(addr), addr)
	}
}

func TestValidateRoute(t *testing.T) {
	require.NoError(t, activities.ValidateRoute(testRoute()))

	cases := []struct {
		name   string
		mutate func(*activities.DeliveryRoute)
	}{
		{"missing route id", func(r *activities.DeliveryRoute) { r.RouteID = "" }},
		{"blank origin", func(r *activities.DeliveryRoute) { r.Origin = "   " }},
		{"blank destination", func(r *activities.DeliveryRoute) { r.Destination = "" }},
		{"zero baseline", func(r *activities.DeliveryRoute) { r.BaselineTimeMinutes = 0 }},
		{"negative baseline", func(r *activities.DeliveryRoute) { r.BaselineTimeMinutes = -5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			route := testRoute()
			tc.mutate(&route)
			require.Error(t, activities.ValidateRoute(route))
		})
	}
}

func TestValidateCustomer(t *testing.T) {
	require.NoError(t, activities.ValidateCustomer(activities.CustomerInfo{
		CustomerID:    "cust-42",
		CustomerEmail: "customer@example.com",
	}))

	require.Error(t, activities.ValidateCustomer(activities.CustomerInfo{
		CustomerEmail: "customer@example.com",
	}))
	require.Error(t, activities.ValidateCustomer(activities.CustomerInfo{
		CustomerID:    "cust-42",
		CustomerEmail: "bad",
	}))
}

func TestValidateConfig(t *testing.T) {
	valid := activities.WorkflowConfig{
		DelayThresholdMinutes: 30,
		RetryAttempts:         3,
		FallbackMessage:       "Delayed by {delayMinutes} minutes.",
	}
	require.NoError(t, activities.ValidateConfig(valid))

	zeroThreshold := valid
	zeroThreshold.DelayThresholdMinutes = 0
	require.Error(t, activities.ValidateConfig(zeroThreshold))

	negativeRetries := valid
	negativeRetries.RetryAttempts = -1
	require.Error(t, activities.ValidateConfig(negativeRetries))

	blankTemplate := valid
	blankTemplate.FallbackMessage = "  "
	require.Error(t, activities.ValidateConfig(blankTemplate))
}

func TestValidateNotification_MessageRequirement(t *testing.T) {
	n := testNotification(25)

	require.NoError(t, activities.ValidateNotification(n, false))
	require.Error(t, activities.ValidateNotification(n, true))

	n.Message = "your delivery is delayed"
	require.NoError(t, activities.ValidateNotification(n, true))

	n.DelayMinutes = -1
	require.Error(t, activities.ValidateNotification(n, false))
}
