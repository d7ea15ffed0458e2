package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/raditia/intrival-go/internal/config"
	"github.com/raditia/intrival-go/pkg/marketdata"
)

// MockProvider implements the provider interface for testing.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProvider) GetQuote(ctx context.Context, ticker string) (*marketdata.QuoteResponse, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketdata.QuoteResponse), args.Error(1)
}

// mustSetEnv sets an environment variable and fails the test on error.
func mustSetEnv(t *testing.T, key, value string) {
	t.Helper()
	require.NoError(t, os.Setenv(key, value))
}

// mustUnsetEnv unsets an environment variable and fails the test on error.
func mustUnsetEnv(t *testing.T, key string) {
	t.Helper()
	require.NoError(t, os.Unsetenv(key))
}

// restoreEnv puts an environment variable back to its original state.
func restoreEnv(t *testing.T, key, value string, existed bool) {
	t.Helper()
	if existed {
		require.NoError(t, os.Setenv(key, value))
	} else {
		require.NoError(t, os.Unsetenv(key))
	}
}

func quoteFixture() *marketdata.QuoteResponse {
	resp := &marketdata.QuoteResponse{}
	resp.QuoteResponse.Result = []marketdata.QuoteResult{
		{
			Symbol:             "INDF.JK",
			Currency:           "IDR",
			ShortName:          "Indofood Sukses Makmur",
			RegularMarketPrice: decimal.NewFromInt(6175),
		},
	}
	return resp
}

func TestConfigLoading_BaseURLFromEnv(t *testing.T) {
	original, existed := os.LookupEnv("PROVIDER_BASE_URL")
	defer restoreEnv(t, "PROVIDER_BASE_URL", original, existed)

	mustSetEnv(t, "PROVIDER_BASE_URL", "https://quotes.example.test")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://quotes.example.test", cfg.Provider.BaseURL)
}

func TestConfigLoading_Defaults(t *testing.T) {
	original, existed := os.LookupEnv("PROVIDER_BASE_URL")
	defer restoreEnv(t, "PROVIDER_BASE_URL", original, existed)

	mustUnsetEnv(t, "PROVIDER_BASE_URL")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Provider.BaseURL)
	assert.NotEmpty(t, cfg.Provider.UserAgent)
	assert.NotEmpty(t, cfg.Valuation.DefaultTicker)
	assert.Greater(t, cfg.Valuation.DefaultRiskFreeRate, 0.0)
}

func TestRunChecks_Success(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("Ping", mock.Anything).Return(nil)
	mockProvider.On("GetQuote", mock.Anything, "INDF.JK").Return(quoteFixture(), nil)

	var buf bytes.Buffer
	err := runChecks(context.Background(), &buf, mockProvider, "INDF.JK")

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "✅ Provider connection successful!")
	assert.Contains(t, output, "✅ Quote fetch successful!")
	assert.Contains(t, output, "Name: Indofood Sukses Makmur")
	assert.Contains(t, output, "Symbol: INDF.JK")
	assert.Contains(t, output, "Price: 6175 IDR")
	mockProvider.AssertExpectations(t)
}

func TestRunChecks_PingFailure(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("Ping", mock.Anything).Return(assert.AnError)

	var buf bytes.Buffer
	err := runChecks(context.Background(), &buf, mockProvider, "INDF.JK")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider unreachable")
	// An unreachable provider must stop the run before any fetch.
	mockProvider.AssertNotCalled(t, "GetQuote", mock.Anything, mock.Anything)
}

func TestRunChecks_QuoteFailure(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("Ping", mock.Anything).Return(nil)
	mockProvider.On("GetQuote", mock.Anything, "INDF.JK").Return(nil, assert.AnError)

	var buf bytes.Buffer
	err := runChecks(context.Background(), &buf, mockProvider, "INDF.JK")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quote fetch failed")
}

func TestRunChecks_EmptyQuote(t *testing.T) {
	mockProvider := new(MockProvider)
	mockProvider.On("Ping", mock.Anything).Return(nil)
	mockProvider.On("GetQuote", mock.Anything, "NOSUCH").Return(&marketdata.QuoteResponse{}, nil)

	var buf bytes.Buffer
	err := runChecks(context.Background(), &buf, mockProvider, "NOSUCH")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no quote for NOSUCH")
}

func TestRunChecks_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockProvider := new(MockProvider)
	mockProvider.On("Ping", mock.Anything).Return(context.Canceled)

	var buf bytes.Buffer
	err := runChecks(ctx, &buf, mockProvider, "INDF.JK")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidationOutput_Formats(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		args     []interface{}
		expected string
	}{
		{
			name:     "configured base URL",
			format:   "✅ PROVIDER_BASE_URL is configured: %s\n",
			args:     []interface{}{"https://quotes.example.test"},
			expected: "✅ PROVIDER_BASE_URL is configured: https://quotes.example.test",
		},
		{
			name:     "risk-free rate",
			format:   "✅ Default risk-free rate: %.2f%%\n",
			args:     []interface{}{5.5},
			expected: "✅ Default risk-free rate: 5.50%",
		},
		{
			name:     "env file warning",
			format:   "⚠️  Warning: Could not load .env file: %v\n",
			args:     []interface{}{assert.AnError},
			expected: "⚠️  Warning: Could not load .env file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			fmt.Fprintf(&buf, tt.format, tt.args...)
			assert.Contains(t, buf.String(), tt.expected)
		})
	}
}
