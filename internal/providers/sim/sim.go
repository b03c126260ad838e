// Package sim provides simulated traffic, generation, and email providers
// for local development and load testing. Latency and failure injection are
// configured per provider through environment variables so retry behavior
// can be exercised without real credentials.
package sim

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/routeops/delay-monitor/internal/providers"
)

type Config struct {
	FailureRate  float64
	MinLatencyMs int
	MaxLatencyMs int
}

// LoadConfig reads <prefix>_FAILURE_RATE, <prefix>_LATENCY_MIN_MS, and
// <prefix>_LATENCY_MAX_MS.
func LoadConfig(prefix string) Config {
	return Config{
		FailureRate:  getEnvFloat(prefix+"_FAILURE_RATE", 0.0),
		MinLatencyMs: getEnvInt(prefix+"_LATENCY_MIN_MS", 0),
		MaxLatencyMs: getEnvInt(prefix+"_LATENCY_MAX_MS", 0),
	}
}

func (c Config) maybeFail(ctx context.Context, provider string) error {
	if err := simulateLatency(ctx, c.MinLatencyMs, c.MaxLatencyMs); err != nil {
		return err
	}
	if shouldFail(c.FailureRate) {
		return &providers.StatusError{Provider: provider, Code: 503, Body: "simulated failure"}
	}
	return nil
}

// Traffic returns travel times centered on baseline plus a random delay, so
// a run of monitors exercises both sides of the threshold branch.
type Traffic struct {
	cfg Config
	// BaselineMinutes anchors the simulated travel time; the reported
	// duration is baseline plus 0-45 minutes of synthetic traffic.
	BaselineMinutes int
}

func NewTraffic(cfg Config, baselineMinutes int) *Traffic {
	if baselineMinutes <= 0 {
		baselineMinutes = 30
	}
	return &Traffic{cfg: cfg, BaselineMinutes: baselineMinutes}
}

func (t *Traffic) GetTravelTime(ctx context.Context, origin, destination string) (*providers.TravelTime, error) {
	if origin == "" || destination == "" {
		return nil, errors.New("origin and destination must be non-empty")
	}
	if err := t.cfg.maybeFail(ctx, "sim-traffic"); err != nil {
		return nil, err
	}
	minutes := t.BaselineMinutes + randomInt(0, 45)
	return &providers.TravelTime{
		DurationWithTraffic: time.Duration(minutes) * time.Minute,
		Status:              "OK",
	}, nil
}

// Generator produces canned delay-apology text.
type Generator struct {
	cfg Config
}

func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

func (g *Generator) Generate(ctx context.Context, systemPrompt, userPrompt string) (*providers.Generation, error) {
	if err := g.cfg.maybeFail(ctx, "sim-generator"); err != nil {
		return nil, err
	}
	text := "We sincerely apologize for the delay affecting your delivery today. " +
		"Our team is tracking your driver's progress and your order remains on its way. " +
		"Traffic conditions along the route are heavier than usual, and we appreciate " +
		"your patience and understanding while we work to get your package to you as " +
		"quickly as possible. Thank you for choosing us.\n\nBest regards,\nThe Delivery Team"
	return &providers.Generation{
		Text:             text,
		PromptTokens:     len(userPrompt) / 4,
		CompletionTokens: len(text) / 4,
	}, nil
}

// Mailer accepts every message and fabricates a provider message id.
type Mailer struct {
	cfg Config
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(ctx context.Context, msg providers.EmailMessage) (*providers.EmailReceipt, error) {
	if msg.ToEmail == "" {
		return nil, &providers.DataError{Provider: "sim-mailer", Detail: "missing recipient"}
	}
	if err := m.cfg.maybeFail(ctx, "sim-mailer"); err != nil {
		return nil, err
	}
	return &providers.EmailReceipt{
		StatusCode: 202,
		MessageID:  fmt.Sprintf("sim-%s", uuid.New().String()[:8]),
	}, nil
}

func simulateLatency(ctx context.Context, minMs, maxMs int) error {
	if minMs <= 0 && maxMs <= 0 {
		return nil
	}
	delayMs := minMs
	if maxMs > minMs {
		delayMs = minMs + cryptoRandIntn(maxMs-minMs)
	}
	if delayMs <= 0 {
		return nil
	}
	select {
	case <-time.After(time.Duration(delayMs) * time.Millisecond):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func shouldFail(rate float64) bool {
	if rate <= 0 {
		return false
	}
	if rate >= 1 {
		return true
	}
	return cryptoRandFloat64() < rate
}

func randomInt(min, max int) int {
	if max <= min {
		return min
	}
	return min + cryptoRandIntn(max-min)
}

func cryptoRandFloat64() float64 {
	max := big.NewInt(1 << 53)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return 0.5
	}
	return float64(n.Int64()) / float64(1<<53)
}

func cryptoRandIntn(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
