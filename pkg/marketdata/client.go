package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/raditia/intrival-go/internal/config"
	"github.com/raditia/intrival-go/internal/telemetry"
)

// Provider endpoint paths.
const (
	chartPath        = "/v8/finance/chart"
	quotePath        = "/v7/finance/quote"
	fundamentalsPath = "/ws/fundamentals/v1/finance/statements"
)

// Client represents the market-data provider HTTP client
type Client struct {
	HTTPClient *http.Client
	baseURL    string
	userAgent  string
	timeout    time.Duration
}

// NewClient creates a new provider client instance
func NewClient(cfg *config.ProviderConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   timeout,
	}
}

// BaseURL returns the configured provider base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetChart retrieves the close-price series for a ticker.
func (c *Client) GetChart(ctx context.Context, ticker, dataRange, interval string) (*ChartResponse, error) {
	path := fmt.Sprintf("%s/%s", chartPath, url.PathEscape(ticker))
	params := url.Values{}
	if dataRange != "" {
		params.Set("range", dataRange)
	}
	if interval != "" {
		params.Set("interval", interval)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var response ChartResponse
	if err := c.makeRequest(ctx, "GET", path, nil, &response); err != nil {
		return nil, err
	}
	if response.Chart.Error != nil {
		return nil, fmt.Errorf("chart error for %s: %s (%s)", ticker, response.Chart.Error.Description, response.Chart.Error.Code)
	}
	return &response, nil
}

// GetQuote retrieves the current quote for a ticker.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*QuoteResponse, error) {
	params := url.Values{}
	params.Set("symbols", ticker)
	path := quotePath + "?" + params.Encode()

	var response QuoteResponse
	if err := c.makeRequest(ctx, "GET", path, nil, &response); err != nil {
		return nil, err
	}
	if response.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("quote error for %s: %s (%s)", ticker, response.QuoteResponse.Error.Description, response.QuoteResponse.Error.Code)
	}
	return &response, nil
}

// GetFundamentals retrieves the three annual statements for a ticker.
func (c *Client) GetFundamentals(ctx context.Context, ticker string) (*FundamentalsResponse, error) {
	path := fmt.Sprintf("%s/%s", fundamentalsPath, url.PathEscape(ticker))
	var response FundamentalsResponse
	if err := c.makeRequest(ctx, "GET", path, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Ping verifies the provider is reachable. Any HTTP response counts as
// reachable; only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "HEAD", c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider unreachable: %w", err)
	}
	if err := resp.Body.Close(); err != nil {
		log.Printf("Error closing response body: %v", err)
	}
	return nil
}

// makeRequest is a helper method to make HTTP requests to the provider
func (c *Client) makeRequest(ctx context.Context, method, path string, body io.Reader, result interface{}) error {
	url := c.baseURL + path

	endpoint := path
	if i := strings.Index(endpoint, "?"); i >= 0 {
		endpoint = endpoint[:i]
	}
	ctx, span := telemetry.GetExternalTracer().Start(ctx,
		fmt.Sprintf("provider %s %s", method, endpoint),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", url),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Error closing response body: %v", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
		var apiErr struct {
			Error *APIError `json:"error"`
		}
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != nil {
			return &ProviderError{StatusCode: resp.StatusCode, Message: apiErr.Error.Description}
		}
		return &ProviderError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// Close closes the HTTP client (if needed for cleanup)
func (c *Client) Close() error {
	// HTTP client doesn't need explicit closing, but this method
	// is provided for interface compatibility
	return nil
}
