package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Struct(t *testing.T) {
	config := Config{
		Environment: "test",
		LogLevel:    "debug",
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Provider: ProviderConfig{
			BaseURL:   "http://localhost:9090",
			Timeout:   30,
			UserAgent: "test-agent",
		},
		Valuation: ValuationConfig{
			DefaultTicker:       "INDF.JK",
			DefaultRiskFreeRate: 5.50,
			Countries:           []string{"Indonesia"},
		},
		Sentry: SentryConfig{
			Enabled:          true,
			DSN:              "https://key@sentry.example.com/1",
			TracesSampleRate: 0.2,
		},
	}

	assert.Equal(t, "test", config.Environment)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, config.Server.AllowedOrigins)
	assert.Equal(t, "http://localhost:9090", config.Provider.BaseURL)
	assert.Equal(t, 30, config.Provider.Timeout)
	assert.Equal(t, "test-agent", config.Provider.UserAgent)
	assert.Equal(t, "INDF.JK", config.Valuation.DefaultTicker)
	assert.Equal(t, 5.50, config.Valuation.DefaultRiskFreeRate)
	assert.Equal(t, []string{"Indonesia"}, config.Valuation.Countries)
	assert.True(t, config.Sentry.Enabled)
	assert.Equal(t, "https://key@sentry.example.com/1", config.Sentry.DSN)
	assert.Equal(t, 0.2, config.Sentry.TracesSampleRate)
}

func TestLoad_WithDefaults(t *testing.T) {
	// Clear any existing environment variables that might interfere
	os.Clearenv()

	config, err := Load()
	require.NoError(t, err)
	require.NotNil(t, config)

	// Test default values
	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, config.Server.AllowedOrigins)
	assert.Equal(t, "https://query1.finance.yahoo.com", config.Provider.BaseURL)
	assert.Equal(t, 30, config.Provider.Timeout)
	assert.NotEmpty(t, config.Provider.UserAgent)
	assert.Equal(t, "INDF.JK", config.Valuation.DefaultTicker)
	assert.Equal(t, 5.50, config.Valuation.DefaultRiskFreeRate)
	assert.Equal(t, []string{"Indonesia"}, config.Valuation.Countries)
	assert.True(t, config.Telemetry.Enabled)
	assert.Equal(t, "", config.Telemetry.OTLPEndpoint)
	assert.Equal(t, "1.0.0", config.Telemetry.ServiceVersion)
	assert.False(t, config.Sentry.Enabled)
	assert.Equal(t, "", config.Sentry.DSN)
	assert.Equal(t, 0.2, config.Sentry.TracesSampleRate)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	// Clear any existing environment variables and set new ones
	os.Clearenv()

	// Viper converts nested keys to uppercase with underscores
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("PROVIDER_BASE_URL", "https://quotes.internal.example.com")
	t.Setenv("PROVIDER_TIMEOUT", "60")
	t.Setenv("VALUATION_DEFAULT_TICKER", "BBCA.JK")
	t.Setenv("SENTRY_DSN", " https://key@sentry.example.com/42 ")

	config, err := Load()
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, "error", config.LogLevel)
	assert.Equal(t, 9000, config.Server.Port)
	assert.Equal(t, "https://quotes.internal.example.com", config.Provider.BaseURL)
	assert.Equal(t, 60, config.Provider.Timeout)
	assert.Equal(t, "BBCA.JK", config.Valuation.DefaultTicker)
	// DSN is trimmed of surrounding whitespace
	assert.Equal(t, "https://key@sentry.example.com/42", config.Sentry.DSN)
}

func TestProviderConfig_GetBaseURL(t *testing.T) {
	config := ProviderConfig{
		BaseURL: "http://localhost:9090",
		Timeout: 30,
	}

	assert.Equal(t, "http://localhost:9090", config.GetBaseURL())
}

func TestProviderConfig_GetTimeout(t *testing.T) {
	config := ProviderConfig{
		BaseURL: "http://localhost:9090",
		Timeout: 45,
	}

	assert.Equal(t, 45, config.GetTimeout())
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name: "valid configuration",
			config: Config{
				Environment: "development",
				Provider:    ProviderConfig{BaseURL: "https://quotes.example.com"},
				Valuation: ValuationConfig{
					DefaultTicker:       "INDF.JK",
					DefaultRiskFreeRate: 5.5,
					Countries:           []string{"Indonesia"},
				},
			},
			expectError: false,
		},
		{
			name: "missing provider base URL",
			config: Config{
				Environment: "development",
				Valuation: ValuationConfig{
					DefaultTicker:       "INDF.JK",
					DefaultRiskFreeRate: 5.5,
					Countries:           []string{"Indonesia"},
				},
			},
			expectError: true,
		},
		{
			name: "missing default ticker",
			config: Config{
				Environment: "development",
				Provider:    ProviderConfig{BaseURL: "https://quotes.example.com"},
				Valuation: ValuationConfig{
					DefaultRiskFreeRate: 5.5,
					Countries:           []string{"Indonesia"},
				},
			},
			expectError: true,
		},
		{
			name: "empty country list",
			config: Config{
				Environment: "development",
				Provider:    ProviderConfig{BaseURL: "https://quotes.example.com"},
				Valuation: ValuationConfig{
					DefaultTicker:       "INDF.JK",
					DefaultRiskFreeRate: 5.5,
				},
			},
			expectError: true,
		},
		{
			name: "risk-free rate out of range",
			config: Config{
				Environment: "development",
				Provider:    ProviderConfig{BaseURL: "https://quotes.example.com"},
				Valuation: ValuationConfig{
					DefaultTicker:       "INDF.JK",
					DefaultRiskFreeRate: 250,
					Countries:           []string{"Indonesia"},
				},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.config)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
