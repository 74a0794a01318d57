package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ORCA_PRICING_SERVER_PORT.
const EnvPrefix = "ORCA_PRICING"

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Metals    MetalsConfig    `mapstructure:"metals"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// InternalAPIKey guards the /internal routes.
	InternalAPIKey string `mapstructure:"internal_api_key"`
	// RequestsPerSecond and Burst bound the /internal routes as a whole.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
	// SlowQueryThreshold of zero disables slow query logging.
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool `mapstructure:"migrate_on_start"`
}

// RateLimitConfig holds outbound HTTP rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond int `mapstructure:"requests_per_second"`
	MaxRetries        int `mapstructure:"max_retries"`
	InitialBackoffMs  int `mapstructure:"initial_backoff_ms"`
	MaxBackoffMs      int `mapstructure:"max_backoff_ms"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// PricingConfig holds price calculation settings
type PricingConfig struct {
	DefaultTaxCountry string `mapstructure:"default_tax_country"`
	// RecalcConcurrency bounds how many products a mass recalculation prices at once.
	RecalcConcurrency int `mapstructure:"recalc_concurrency"`
	// RecalcOnMetalRefresh recalculates every active price sheet after a
	// scheduled metal price refresh.
	RecalcOnMetalRefresh bool `mapstructure:"recalc_on_metal_refresh"`
}

// MetalsConfig holds the spot metal price feed settings
type MetalsConfig struct {
	APIURL string `mapstructure:"api_url"`
	APIKey string `mapstructure:"api_key"`
	// RefreshInterval of zero disables the background refresh.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// TelemetryConfig holds OpenTelemetry exporter settings
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// ErrInvalidConfig reports a configuration value that cannot be used.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

var globalConfig *Config

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// .env is optional
	if err := loadEnvFile(); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Pricing.DefaultTaxCountry = strings.ToUpper(strings.TrimSpace(cfg.Pricing.DefaultTaxCountry))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = &cfg
	return &cfg, nil
}

// loadEnvFile loads the first .env file found. Variables already set in the
// environment win.
func loadEnvFile() error {
	for _, dir := range []string{".", "./config"} {
		envFile := filepath.Join(dir, ".env")
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		return godotenv.Load(envFile)
	}
	return errors.New("no .env file found")
}

// bindEnvVars binds the conventional unprefixed variables to config keys
func bindEnvVars(v *viper.Viper) {
	binds := map[string]string{
		"database.url":                "DATABASE_URL",
		"server.port":                 "PORT",
		"server.host":                 "HOST",
		"server.internal_api_key":     "INTERNAL_API_KEY",
		"logging.level":               "LOG_LEVEL",
		"metals.api_key":              "METALPRICE_API_KEY",
		"pricing.default_tax_country": "DEFAULT_TAX_COUNTRY",
		"telemetry.endpoint":          "OTEL_EXPORTER_OTLP_ENDPOINT",
		"telemetry.service_name":      "OTEL_SERVICE_NAME",
	}
	for key, env := range binds {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.requests_per_second", 50)
	v.SetDefault("server.burst", 100)

	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.max_conn_lifetime", 1*time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)
	v.SetDefault("database.slow_query_threshold", 500*time.Millisecond)
	v.SetDefault("database.migrate_on_start", false)

	v.SetDefault("rate_limit.requests_per_second", 2)
	v.SetDefault("rate_limit.max_retries", 3)
	v.SetDefault("rate_limit.initial_backoff_ms", 100)
	v.SetDefault("rate_limit.max_backoff_ms", 30000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)

	v.SetDefault("pricing.default_tax_country", "HR")
	v.SetDefault("pricing.recalc_concurrency", 1)
	v.SetDefault("pricing.recalc_on_metal_refresh", false)

	v.SetDefault("metals.api_url", "https://api.metalpriceapi.com")
	v.SetDefault("metals.refresh_interval", time.Duration(0))

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "opentelemetry-collector:4317")
	v.SetDefault("telemetry.service_name", "pricing-service")
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return &ErrInvalidConfig{Field: "server.port", Reason: fmt.Sprintf("%d is not a valid port", c.Server.Port)}
	case c.Server.RequestsPerSecond < 0:
		return &ErrInvalidConfig{Field: "server.requests_per_second", Reason: "must not be negative"}
	case c.Database.MinConnections > c.Database.MaxConnections:
		return &ErrInvalidConfig{Field: "database.min_connections", Reason: "exceeds database.max_connections"}
	case c.Database.SlowQueryThreshold < 0:
		return &ErrInvalidConfig{Field: "database.slow_query_threshold", Reason: "must not be negative"}
	case len(c.Pricing.DefaultTaxCountry) != 2:
		return &ErrInvalidConfig{Field: "pricing.default_tax_country", Reason: "must be a two-letter country code"}
	case c.Pricing.RecalcConcurrency < 1:
		return &ErrInvalidConfig{Field: "pricing.recalc_concurrency", Reason: "must be at least 1"}
	case c.Metals.RefreshInterval < 0:
		return &ErrInvalidConfig{Field: "metals.refresh_interval", Reason: "must not be negative"}
	case c.Metals.RefreshInterval > 0 && c.Metals.APIKey == "":
		return &ErrInvalidConfig{Field: "metals.api_key", Reason: "required when metals.refresh_interval is set"}
	case c.Telemetry.Enabled && c.Telemetry.Endpoint == "":
		return &ErrInvalidConfig{Field: "telemetry.endpoint", Reason: "required when telemetry is enabled"}
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return &ErrInvalidConfig{Field: "logging.format", Reason: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}
	return nil
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// GetDatabaseURL returns the database URL from config or environment
func GetDatabaseURL() string {
	if cfg := Get(); cfg != nil && cfg.Database.URL != "" {
		return cfg.Database.URL
	}
	return os.Getenv("DATABASE_URL")
}
