package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/routeops/delay-monitor/internal/providers"
	"github.com/routeops/delay-monitor/internal/providers/gemini"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *gemini.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := gemini.NewClient("test-key")
	require.NoError(t, err)
	return client.WithBaseURL(server.URL)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := gemini.NewClient("")
	require.Error(t, err)
}

func TestGenerate_ParsesCandidateAndUsage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Contains(t, req, "contents")
		require.Contains(t, req, "systemInstruction")

		w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "We apologize "}, {"text": "for the delay."}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 120, "candidatesTokenCount": 40, "totalTokenCount": 160}
		}`))
	})

	gen, err := client.Generate(context.Background(), "You are a helpful assistant.", "Write a delay notification.")
	require.NoError(t, err)
	require.Equal(t, "We apologize for the delay.", gen.Text)
	require.Equal(t, 120, gen.PromptTokens)
	require.Equal(t, 40, gen.CompletionTokens)
}

func TestGenerate_NoSystemInstruction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotContains(t, req, "systemInstruction")

		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "ok"}]}}]}`))
	})

	_, err := client.Generate(context.Background(), "", "prompt")
	require.NoError(t, err)
}

func TestGenerate_RateLimitIsQuotaError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Generate(context.Background(), "sys", "prompt")
	require.Error(t, err)

	var dataErr *providers.DataError
	require.True(t, errors.As(err, &dataErr))
	require.True(t, dataErr.Quota)
	require.False(t, providers.Retryable(err))
}

func TestGenerate_UnauthorizedIsAuthError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("API key not valid"))
	})

	_, err := client.Generate(context.Background(), "sys", "prompt")
	require.Error(t, err)

	var authErr *providers.AuthError
	require.True(t, errors.As(err, &authErr))
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	})

	_, err := client.Generate(context.Background(), "sys", "prompt")
	require.Error(t, err)

	var dataErr *providers.DataError
	require.True(t, errors.As(err, &dataErr))
}

func TestGenerate_ServerErrorIsRetryable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Generate(context.Background(), "sys", "prompt")
	require.Error(t, err)
	require.True(t, providers.Retryable(err))
}
