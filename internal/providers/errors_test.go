package providers_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/routeops/delay-monitor/internal/providers"
)

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"auth error", &providers.AuthError{Provider: "p", Detail: "denied"}, false},
		{"data error", &providers.DataError{Provider: "p", Detail: "not found"}, false},
		{"quota error", &providers.DataError{Provider: "p", Detail: "limit", Quota: true}, false},
		{"wrapped auth error", fmt.Errorf("lookup: %w", &providers.AuthError{Provider: "p"}), false},
		{"http 429", &providers.StatusError{Provider: "p", Code: 429}, true},
		{"http 500", &providers.StatusError{Provider: "p", Code: 500}, true},
		{"http 503", &providers.StatusError{Provider: "p", Code: 503}, true},
		{"http 400", &providers.StatusError{Provider: "p", Code: 400}, false},
		{"http 404", &providers.StatusError{Provider: "p", Code: 404}, false},
		{"unknown error", errors.New("connection reset"), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, providers.Retryable(tc.err))
		})
	}
}

func TestClassifyHTTPStatus(t *testing.T) {
	var authErr *providers.AuthError
	require.True(t, errors.As(providers.ClassifyHTTPStatus("p", 401, "denied"), &authErr))
	require.True(t, errors.As(providers.ClassifyHTTPStatus("p", 403, "forbidden"), &authErr))

	var statusErr *providers.StatusError
	require.True(t, errors.As(providers.ClassifyHTTPStatus("p", 429, "slow down"), &statusErr))
	require.True(t, errors.As(providers.ClassifyHTTPStatus("p", 502, "bad gateway"), &statusErr))

	var dataErr *providers.DataError
	require.True(t, errors.As(providers.ClassifyHTTPStatus("p", 400, "bad request"), &dataErr))
	require.True(t, errors.As(providers.ClassifyHTTPStatus("p", 422, "unprocessable"), &dataErr))
}
