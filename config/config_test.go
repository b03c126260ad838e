package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/routeops/delay-monitor/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/delay_monitor")
	t.Setenv("MAPS_API_KEY", "maps-key")
	t.Setenv("SENDGRID_API_KEY", "sendgrid-key")
	t.Setenv("SENDER_EMAIL", "updates@example.com")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "localhost:7233", cfg.TemporalHost)
	require.Equal(t, "default", cfg.TemporalNamespace)
	require.Equal(t, "delay-monitoring", cfg.TemporalTaskQueue)
	require.Equal(t, 15, cfg.DelayThresholdMinutes)
	require.Equal(t, 3, cfg.RetryAttempts)
	require.Equal(t, 100, cfg.MaxConcurrentActivities)
	require.Equal(t, config.DefaultFallbackTemplate, cfg.FallbackTemplate)
	require.False(t, cfg.SimulationMode)
	require.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DELAY_THRESHOLD_MINUTES", "30")
	t.Setenv("MAX_CONCURRENT_ACTIVITIES", "50")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 30, cfg.DelayThresholdMinutes)
	require.Equal(t, 50, cfg.MaxConcurrentActivities)
	require.False(t, cfg.IsDevelopment())
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_ProviderKeysRequiredOutsideSimulation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAPS_API_KEY", "")

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "MAPS_API_KEY")
}

func TestLoad_SimulationModeSkipsProviderKeys(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAPS_API_KEY", "")
	t.Setenv("SENDGRID_API_KEY", "")
	t.Setenv("SIMULATION_MODE", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.True(t, cfg.SimulationMode)
}

func TestLoad_InvalidSenderEmail(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SENDER_EMAIL", "not-an-email")

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SENDER_EMAIL")
}

func TestLoad_InvalidThreshold(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DELAY_THRESHOLD_MINUTES", "0")

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "DELAY_THRESHOLD_MINUTES")
}

func TestLoad_NonNumericThreshold(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DELAY_THRESHOLD_MINUTES", "lots")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_TemplateMustCarryDelayPlaceholder(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FALLBACK_MESSAGE_TEMPLATE", "Your delivery is late.")

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "{delayMinutes}")
}

func TestDefaultFallbackTemplate_Placeholders(t *testing.T) {
	for _, placeholder := range []string{"{delayMinutes}", "{origin}", "{destination}"} {
		require.True(t, strings.Contains(config.DefaultFallbackTemplate, placeholder), placeholder)
	}
}
