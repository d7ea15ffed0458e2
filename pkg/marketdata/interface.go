package marketdata

import (
	"context"

	"github.com/raditia/intrival-go/internal/models"
)

// MarketDataService defines the interface for provider-backed market data
// operations consumed by the valuation pipeline and the API handlers.
type MarketDataService interface {
	// Quotes and price history
	FetchQuote(ctx context.Context, ticker string) (*Quote, error)
	FetchPriceHistory(ctx context.Context, ticker string) (*models.PriceHistory, error)

	// Annual statements
	FetchStatements(ctx context.Context, ticker string) (*Statements, error)

	// Service lifecycle
	IsHealthy(ctx context.Context) bool
	BaseURL() string
	Close() error
}

// MarketDataClient defines the interface for low-level provider HTTP
// operations.
type MarketDataClient interface {
	GetChart(ctx context.Context, ticker, dataRange, interval string) (*ChartResponse, error)
	GetQuote(ctx context.Context, ticker string) (*QuoteResponse, error)
	GetFundamentals(ctx context.Context, ticker string) (*FundamentalsResponse, error)

	// Health and lifecycle
	Ping(ctx context.Context) error
	BaseURL() string
	Close() error
}

// Ensure our implementations satisfy the interfaces
var (
	_ MarketDataService = (*Service)(nil)
	_ MarketDataClient  = (*Client)(nil)
)
