package sendgrid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/routeops/delay-monitor/internal/providers"
	"github.com/routeops/delay-monitor/internal/providers/sendgrid"
)

func testMessage() providers.EmailMessage {
	return providers.EmailMessage{
		ToEmail:   "customer@example.com",
		ToName:    "Customer cust-42",
		FromEmail: "updates@example.com",
		FromName:  "Delivery Updates",
		Subject:   "Delivery Delay Update - Route route-sf-oak",
		TextBody:  "Your delivery is delayed by 25 minutes.",
		HTMLBody:  "<p>Your delivery is delayed by <strong>25 minutes</strong>.</p>",
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *sendgrid.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := sendgrid.NewClient("test-key")
	require.NoError(t, err)
	return client.WithBaseURL(server.URL)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := sendgrid.NewClient("")
	require.Error(t, err)
}

func TestSend_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/mail/send", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Personalizations []struct {
				To []struct {
					Email string `json:"email"`
				} `json:"to"`
			} `json:"personalizations"`
			Subject string `json:"subject"`
			Content []struct {
				Type  string `json:"type"`
				Value string `json:"value"`
			} `json:"content"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Personalizations, 1)
		require.Equal(t, "customer@example.com", req.Personalizations[0].To[0].Email)
		require.Equal(t, "Delivery Delay Update - Route route-sf-oak", req.Subject)
		require.Len(t, req.Content, 2)
		require.Equal(t, "text/plain", req.Content[0].Type)
		require.Equal(t, "text/html", req.Content[1].Type)

		w.Header().Set("X-Message-Id", "msg-abc123")
		w.WriteHeader(http.StatusAccepted)
	})

	receipt, err := client.Send(context.Background(), testMessage())
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, receipt.StatusCode)
	require.Equal(t, "msg-abc123", receipt.MessageID)
}

func TestSend_UnauthorizedIsAuthError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors": [{"message": "authorization required"}]}`))
	})

	_, err := client.Send(context.Background(), testMessage())
	require.Error(t, err)

	var authErr *providers.AuthError
	require.True(t, errors.As(err, &authErr))
	require.False(t, providers.Retryable(err))
}

func TestSend_BadRequestIsDataError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors": [{"message": "invalid to address"}]}`))
	})

	_, err := client.Send(context.Background(), testMessage())
	require.Error(t, err)

	var dataErr *providers.DataError
	require.True(t, errors.As(err, &dataErr))
	require.False(t, providers.Retryable(err))
}

func TestSend_RateLimitIsRetryable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Send(context.Background(), testMessage())
	require.Error(t, err)

	var statusErr *providers.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	require.True(t, providers.Retryable(err))
}

func TestSend_ServerErrorIsRetryable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Send(context.Background(), testMessage())
	require.Error(t, err)
	require.True(t, providers.Retryable(err))
}
