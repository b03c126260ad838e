package activities_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/routeops/delay-monitor/internal/activities"
	"github.com/routeops/delay-monitor/internal/providers"
)

type mockTraffic struct {
	mock.Mock
}

func (m *mockTraffic) GetTravelTime(ctx context.Context, origin, destination string) (*providers.TravelTime, error) {
	args := m.Called(ctx, origin, destination)
	if tt := args.Get(0); tt != nil {
		return tt.(*providers.TravelTime), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (*providers.Generation, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	if g := args.Get(0); g != nil {
		return g.(*providers.Generation), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg providers.EmailMessage) (*providers.EmailReceipt, error) {
	args := m.Called(ctx, msg)
	if r := args.Get(0); r != nil {
		return r.(*providers.EmailReceipt), args.Error(1)
	}
	return nil, args.Error(1)
}

func testRoute() activities.DeliveryRoute {
	return activities.DeliveryRoute{
		RouteID:             "route-sf-oak",
		Origin:              "San Francisco, CA",
		Destination:         "Oakland, CA",
		BaselineTimeMinutes: 30,
	}
}

func testNotification(delayMinutes int) activities.DelayNotification {
	return activities.DelayNotification{
		CustomerID:    "cust-42",
		CustomerEmail: "customer@example.com",
		Route:         testRoute(),
		DelayMinutes:  delayMinutes,
	}
}

func testSender() activities.SenderIdentity {
	return activities.SenderIdentity{
		Email: "updates@example.com",
		Name:  "Delivery Updates",
	}
}
