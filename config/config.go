package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// DefaultFallbackTemplate is used when FALLBACK_MESSAGE_TEMPLATE is unset.
// It carries every recognized placeholder.
const DefaultFallbackTemplate = "We're sorry - your delivery from {origin} to {destination} " +
	"is running about {delayMinutes} minutes behind schedule due to traffic. " +
	"We appreciate your patience and will get your package to you as soon as possible."

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	TemporalHost      string
	TemporalNamespace string
	TemporalTaskQueue string

	MapsAPIKey     string
	GeminiAPIKey   string
	SendGridAPIKey string

	SenderEmail string
	SenderName  string

	DelayThresholdMinutes int
	RetryAttempts         int
	FallbackTemplate      string

	MaxConcurrentActivities int
	MaxConcurrentWorkflows  int

	SimulationMode bool

	OTelServiceName string
	OTelEndpoint    string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		TemporalHost:      getEnv("TEMPORAL_HOST", "localhost:7233"),
		TemporalNamespace: getEnv("TEMPORAL_NAMESPACE", "default"),
		TemporalTaskQueue: getEnv("TEMPORAL_TASK_QUEUE", "delay-monitoring"),
		MapsAPIKey:        getEnv("MAPS_API_KEY", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SenderEmail:       getEnv("SENDER_EMAIL", ""),
		SenderName:        getEnv("SENDER_NAME", "Delivery Updates"),
		FallbackTemplate:  getEnv("FALLBACK_MESSAGE_TEMPLATE", DefaultFallbackTemplate),
		OTelServiceName:   getEnv("OTEL_SERVICE_NAME", "delay-monitor"),
		OTelEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
	}

	var err error
	if cfg.DelayThresholdMinutes, err = getEnvInt("DELAY_THRESHOLD_MINUTES", 15); err != nil {
		return nil, err
	}
	if cfg.RetryAttempts, err = getEnvInt("RETRY_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrentActivities, err = getEnvInt("MAX_CONCURRENT_ACTIVITIES", 100); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrentWorkflows, err = getEnvInt("MAX_CONCURRENT_WORKFLOWS", 100); err != nil {
		return nil, err
	}
	cfg.SimulationMode = getEnv("SIMULATION_MODE", "false") == "true"

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if !c.SimulationMode {
		if c.MapsAPIKey == "" {
			return fmt.Errorf("MAPS_API_KEY is required")
		}
		if c.SendGridAPIKey == "" {
			return fmt.Errorf("SENDGRID_API_KEY is required")
		}
	}
	if c.SenderEmail == "" {
		return fmt.Errorf("SENDER_EMAIL is required")
	}
	if !emailPattern.MatchString(c.SenderEmail) {
		return fmt.Errorf("SENDER_EMAIL %q is not a valid email address", c.SenderEmail)
	}
	if c.DelayThresholdMinutes <= 0 {
		return fmt.Errorf("DELAY_THRESHOLD_MINUTES must be positive, got %d", c.DelayThresholdMinutes)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("RETRY_ATTEMPTS must be non-negative, got %d", c.RetryAttempts)
	}
	if !strings.Contains(c.FallbackTemplate, "{delayMinutes}") {
		return fmt.Errorf("FALLBACK_MESSAGE_TEMPLATE must contain the {delayMinutes} placeholder")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
