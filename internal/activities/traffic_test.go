package activities_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/routeops/delay-monitor/internal/activities"
	"github.com/routeops/delay-monitor/internal/providers"
)

func TestGetTrafficData_ComputesDelayAndConditions(t *testing.T) {
	cases := []struct {
		name           string
		duration       time.Duration
		wantCurrent    int
		wantDelay      int
		wantConditions string
	}{
		{"no delay", 25 * time.Minute, 25, 0, "Normal"},
		{"exactly baseline", 30 * time.Minute, 30, 0, "Normal"},
		{"light delay", 42 * time.Minute, 42, 12, "Light"},
		{"moderate delay", 55 * time.Minute, 55, 25, "Moderate"},
		{"heavy delay", 75 * time.Minute, 75, 45, "Heavy"},
		{"partial minutes round up", 29*time.Minute + 10*time.Second, 30, 0, "Normal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			traffic := &mockTraffic{}
			traffic.On("GetTravelTime", mock.Anything, "San Francisco, CA", "Oakland, CA").
				Return(&providers.TravelTime{DurationWithTraffic: tc.duration, Status: "OK"}, nil)

			a := activities.New(traffic, nil, nil, testSender())
			snapshot, err := a.GetTrafficData(context.Background(), activities.GetTrafficInput{Route: testRoute()})

			require.NoError(t, err)
			require.Equal(t, tc.wantCurrent, snapshot.CurrentTravelTimeMinutes)
			require.Equal(t, tc.wantDelay, snapshot.DelayMinutes)
			require.Equal(t, tc.wantConditions, snapshot.TrafficConditions)
			require.False(t, snapshot.RetrievedAt.IsZero())
			traffic.AssertExpectations(t)
		})
	}
}

func TestGetTrafficData_InvalidRouteSkipsProvider(t *testing.T) {
	traffic := &mockTraffic{}

	route := testRoute()
	route.Origin = ""

	a := activities.New(traffic, nil, nil, testSender())
	snapshot, err := a.GetTrafficData(context.Background(), activities.GetTrafficInput{Route: route})

	require.Error(t, err)
	require.Nil(t, snapshot)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, activities.ErrTypeInvalidRoute, appErr.Type())
	require.True(t, appErr.NonRetryable())

	traffic.AssertNotCalled(t, "GetTravelTime", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetTrafficData_AuthErrorIsTerminal(t *testing.T) {
	traffic := &mockTraffic{}
	traffic.On("GetTravelTime", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &providers.AuthError{Provider: "google-maps", Detail: "request denied"})

	a := activities.New(traffic, nil, nil, testSender())
	_, err := a.GetTrafficData(context.Background(), activities.GetTrafficInput{Route: testRoute()})

	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, activities.ErrTypeAuthentication, appErr.Type())
	require.True(t, appErr.NonRetryable())
}

func TestGetTrafficData_QuotaErrorIsTerminal(t *testing.T) {
	traffic := &mockTraffic{}
	traffic.On("GetTravelTime", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &providers.DataError{Provider: "google-maps", Detail: "over query limit", Quota: true})

	a := activities.New(traffic, nil, nil, testSender())
	_, err := a.GetTrafficData(context.Background(), activities.GetTrafficInput{Route: testRoute()})

	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, activities.ErrTypeQuotaExceeded, appErr.Type())
	require.True(t, appErr.NonRetryable())
}

func TestGetTrafficData_ServerErrorIsRetryable(t *testing.T) {
	traffic := &mockTraffic{}
	traffic.On("GetTravelTime", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &providers.StatusError{Provider: "google-maps", Code: 503, Body: "unavailable"})

	a := activities.New(traffic, nil, nil, testSender())
	_, err := a.GetTrafficData(context.Background(), activities.GetTrafficInput{Route: testRoute()})

	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, activities.ErrTypeTransient, appErr.Type())
	require.False(t, appErr.NonRetryable())
}
