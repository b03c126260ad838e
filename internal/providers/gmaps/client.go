// Package gmaps implements providers.TrafficProvider against the Google
// Maps Distance Matrix API. The client issues a single request per call;
// retries are owned by the workflow engine's activity retry policy.
package gmaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/routeops/delay-monitor/internal/providers"
)

const (
	providerName   = "google-maps"
	defaultBaseURL = "https://maps.googleapis.com"
	requestTimeout = 10 * time.Second
)

type Client struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("maps api key is empty")
	}
	return &Client{
		session: &http.Client{Timeout: requestTimeout},
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}, nil
}

// WithBaseURL overrides the API endpoint, used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

type matrixResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
	Rows         []matrixRow `json:"rows"`
}

type matrixRow struct {
	Elements []matrixElement `json:"elements"`
}

type matrixElement struct {
	Status            string       `json:"status"`
	Duration          *matrixValue `json:"duration,omitempty"`
	DurationInTraffic *matrixValue `json:"duration_in_traffic,omitempty"`
}

type matrixValue struct {
	Value int64  `json:"value"` // seconds
	Text  string `json:"text"`
}

// GetTravelTime requests the current traffic-adjusted travel time for the
// pair, departing now under the best_guess traffic model.
func (c *Client) GetTravelTime(ctx context.Context, origin, destination string) (*providers.TravelTime, error) {
	origin = normalize(origin)
	destination = normalize(destination)
	if origin == "" || destination == "" {
		return nil, errors.New("origin and destination must be non-empty")
	}

	q := url.Values{}
	q.Set("origins", origin)
	q.Set("destinations", destination)
	q.Set("departure_time", "now")
	q.Set("traffic_model", "best_guess")
	q.Set("units", "metric")
	q.Set("key", c.apiKey)

	endpoint := c.baseURL + "/maps/api/distancematrix/json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("distance matrix request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, providers.ClassifyHTTPStatus(providerName, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed matrixResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode distance matrix response: %w", err)
	}

	if err := classifyTopStatus(parsed.Status, parsed.ErrorMessage); err != nil {
		return nil, err
	}

	if len(parsed.Rows) == 0 || len(parsed.Rows[0].Elements) == 0 {
		return nil, &providers.DataError{
			Provider: providerName,
			Detail:   "response contains no route elements",
		}
	}

	element := parsed.Rows[0].Elements[0]
	if element.Status != "OK" {
		return nil, &providers.DataError{
			Provider: providerName,
			Detail:   fmt.Sprintf("element status %s for %q -> %q", element.Status, origin, destination),
		}
	}

	duration := element.DurationInTraffic
	if duration == nil {
		// Some responses omit the traffic-adjusted figure; the plain
		// duration is still usable.
		slog.Warn("distance matrix response missing duration_in_traffic, using duration",
			slog.String("origin", origin),
			slog.String("destination", destination),
		)
		duration = element.Duration
	}
	if duration == nil {
		return nil, &providers.DataError{
			Provider: providerName,
			Detail:   "response element has no usable duration",
		}
	}

	return &providers.TravelTime{
		DurationWithTraffic: time.Duration(duration.Value) * time.Second,
		Status:              element.Status,
	}, nil
}

func classifyTopStatus(status, message string) error {
	switch status {
	case "OK":
		return nil
	case "REQUEST_DENIED":
		return &providers.AuthError{Provider: providerName, Detail: message}
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return &providers.DataError{Provider: providerName, Detail: statusDetail(status, message), Quota: true}
	default:
		return &providers.DataError{Provider: providerName, Detail: statusDetail(status, message)}
	}
}

func statusDetail(status, message string) string {
	if message == "" {
		return status
	}
	return status + ": " + message
}

// normalize collapses whitespace so equivalent addresses compare equal.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
