package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config aggregates all configuration settings for the application.
type Config struct {
	// Environment indicates the running environment (e.g., "development", "production").
	Environment string `mapstructure:"environment"`
	// LogLevel sets the global logging verbosity.
	LogLevel string `mapstructure:"log_level"`
	// Server holds configuration for the HTTP server.
	Server ServerConfig `mapstructure:"server"`
	// Provider holds configuration for the market-data provider integration.
	Provider ProviderConfig `mapstructure:"provider"`
	// Valuation holds input defaults for the valuation pipeline.
	Valuation ValuationConfig `mapstructure:"valuation"`
	// Telemetry holds configuration for OpenTelemetry integration.
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	// Sentry holds configuration for Sentry error tracking.
	Sentry SentryConfig `mapstructure:"sentry"`
}

// ServerConfig defines the HTTP server settings.
type ServerConfig struct {
	// Port is the TCP port the server listens on.
	Port int `mapstructure:"port"`
	// AllowedOrigins is a list of CORS allowed origins.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProviderConfig defines settings for the market-data provider.
type ProviderConfig struct {
	// BaseURL is the base URL of the provider API.
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the request timeout in seconds.
	Timeout int `mapstructure:"timeout"`
	// UserAgent is sent on every provider request; some providers reject
	// requests without a browser-like agent.
	UserAgent string `mapstructure:"user_agent"`
}

// ValuationConfig defines the default inputs of the valuation pipeline.
type ValuationConfig struct {
	// DefaultTicker is used when a request omits the ticker.
	DefaultTicker string `mapstructure:"default_ticker"`
	// DefaultRiskFreeRate is the fallback risk-free rate, in percent.
	DefaultRiskFreeRate float64 `mapstructure:"default_risk_free_rate"`
	// Countries is the selectable country list; the first entry is the default.
	Countries []string `mapstructure:"countries"`
}

// TelemetryConfig defines settings for OpenTelemetry.
type TelemetryConfig struct {
	// Enabled controls whether telemetry is active.
	Enabled bool `mapstructure:"enabled"`
	// OTLPEndpoint is the OTLP/HTTP collector endpoint. When empty, traces
	// fall back to the stdout exporter in development.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	// ServiceName is the name of the service for tracing.
	ServiceName string `mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `mapstructure:"service_version"`
	// LogLevel sets the log level for telemetry components.
	LogLevel string `mapstructure:"log_level"`
}

// SentryConfig defines settings for Sentry error reporting.
type SentryConfig struct {
	// Enabled controls whether Sentry reporting is active.
	Enabled bool `mapstructure:"enabled"`
	// DSN is the Data Source Name for the Sentry project.
	DSN string `mapstructure:"dsn"`
	// Environment is the environment tag sent to Sentry.
	Environment string `mapstructure:"environment"`
	// Release is the release version tag.
	Release string `mapstructure:"release"`
	// TracesSampleRate is the percentage of transactions to trace.
	TracesSampleRate float64 `mapstructure:"traces_sample_rate"`
	// ProfilesSampleRate is the percentage of profiles to capture.
	ProfilesSampleRate float64 `mapstructure:"profiles_sample_rate"`
}

// Load reads the configuration from the config file and environment variables.
//
// Returns:
//
//	*Config: The loaded configuration structure.
//	error: An error if the configuration could not be parsed.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Bind provider environment variables
	_ = viper.BindEnv("provider.base_url", "PROVIDER_BASE_URL")
	_ = viper.BindEnv("provider.timeout", "PROVIDER_TIMEOUT")

	// Bind Sentry DSN
	_ = viper.BindEnv("sentry.dsn", "SENTRY_DSN")

	// Bind OTLP endpoint
	_ = viper.BindEnv("telemetry.otlp_endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Sanitize Sentry DSN (remove surrounding spaces)
	if config.Sentry.DSN != "" {
		config.Sentry.DSN = strings.TrimSpace(config.Sentry.DSN)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults initializes the default configuration values in Viper.
func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Provider
	viper.SetDefault("provider.base_url", "https://query1.finance.yahoo.com")
	viper.SetDefault("provider.timeout", 30)
	viper.SetDefault("provider.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	// Valuation inputs
	viper.SetDefault("valuation.default_ticker", "INDF.JK")
	viper.SetDefault("valuation.default_risk_free_rate", 5.50)
	viper.SetDefault("valuation.countries", []string{"Indonesia"})

	// Telemetry
	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.otlp_endpoint", "")
	viper.SetDefault("telemetry.service_name", "github.com/raditia/intrival-go")
	viper.SetDefault("telemetry.service_version", "1.0.0")
	viper.SetDefault("telemetry.log_level", "info")

	// Sentry
	viper.SetDefault("sentry.enabled", false)
	viper.SetDefault("sentry.dsn", "")
	viper.SetDefault("sentry.environment", viper.GetString("environment"))
	viper.SetDefault("sentry.release", "")
	viper.SetDefault("sentry.traces_sample_rate", 0.2)
	viper.SetDefault("sentry.profiles_sample_rate", 0.0)
}

// GetBaseURL returns the provider base URL.
//
// Returns:
//
//	string: The base URL.
func (c *ProviderConfig) GetBaseURL() string {
	return c.BaseURL
}

// GetTimeout returns the provider timeout in seconds.
//
// Returns:
//
//	int: The timeout duration.
func (c *ProviderConfig) GetTimeout() int {
	return c.Timeout
}

// validateConfig validates critical operational settings.
func validateConfig(config *Config) error {
	if config.Provider.BaseURL == "" {
		return fmt.Errorf("provider base_url cannot be empty")
	}

	if config.Valuation.DefaultTicker == "" {
		return fmt.Errorf("valuation default_ticker cannot be empty")
	}

	if len(config.Valuation.Countries) == 0 {
		return fmt.Errorf("valuation countries cannot be empty")
	}

	if config.Valuation.DefaultRiskFreeRate < 0 || config.Valuation.DefaultRiskFreeRate > 100 {
		return fmt.Errorf("valuation default_risk_free_rate must be a percentage between 0 and 100, got %v", config.Valuation.DefaultRiskFreeRate)
	}

	if config.Environment == "production" || config.Environment == "staging" {
		// localhost provider URLs are almost always wrong outside development.
		if strings.Contains(config.Provider.BaseURL, "localhost") || strings.Contains(config.Provider.BaseURL, "127.0.0.1") {
			log.Printf("WARNING: PROVIDER_BASE_URL '%s' contains localhost/127.0.0.1 in %s environment. This may cause connectivity issues between containers.", config.Provider.BaseURL, config.Environment)
		}
	}

	return nil
}
