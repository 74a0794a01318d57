package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "HR", cfg.Pricing.DefaultTaxCountry)
	assert.Equal(t, 1, cfg.Pricing.RecalcConcurrency)
	assert.False(t, cfg.Pricing.RecalcOnMetalRefresh)
	assert.Equal(t, "https://api.metalpriceapi.com", cfg.Metals.APIURL)
	assert.Zero(t, cfg.Metals.RefreshInterval)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Same(t, cfg, Get())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
pricing:
  default_tax_country: si
  recalc_concurrency: 4
metals:
  refresh_interval: 1h
  api_key: from-file
`)
	t.Setenv("METALPRICE_API_KEY", "from-env")
	t.Setenv("ORCA_PRICING_SERVER_HOST", "127.0.0.1")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "SI", cfg.Pricing.DefaultTaxCountry)
	assert.Equal(t, 4, cfg.Pricing.RecalcConcurrency)
	assert.Equal(t, time.Hour, cfg.Metals.RefreshInterval)
	assert.Equal(t, "from-env", cfg.Metals.APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"bad port", "server:\n  port: 70000\n", "server.port"},
		{"tax country", "pricing:\n  default_tax_country: CRO\n", "pricing.default_tax_country"},
		{"concurrency", "pricing:\n  recalc_concurrency: 0\n", "pricing.recalc_concurrency"},
		{"refresh without key", "metals:\n  refresh_interval: 10m\n", "metals.api_key"},
		{"log format", "logging:\n  format: xml\n", "logging.format"},
		{"pool bounds", "database:\n  min_connections: 30\n", "database.min_connections"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			var invalid *ErrInvalidConfig
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}
