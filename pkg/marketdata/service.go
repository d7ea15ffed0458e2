package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/shopspring/decimal"

	"github.com/raditia/intrival-go/internal/config"
	"github.com/raditia/intrival-go/internal/logging"
	"github.com/raditia/intrival-go/internal/models"
	"github.com/raditia/intrival-go/internal/observability"
)

// Close-price series parameters. Five years of daily closes feed both the
// dashboard chart and the FCF history window.
const (
	PriceRange    = "5y"
	PriceInterval = "1d"
)

// Service provides high-level market data operations over the provider
// client. It holds no per-ticker state: every call reaches the provider.
type Service struct {
	client MarketDataClient
	logger logging.Logger
}

// NewService creates a new market data service instance.
func NewService(cfg *config.ProviderConfig, logger logging.Logger) *Service {
	return &Service{
		client: NewClient(cfg),
		logger: logger,
	}
}

// FetchQuote fetches the current market quote for a ticker.
func (s *Service) FetchQuote(ctx context.Context, ticker string) (*Quote, error) {
	ctx, span := observability.TraceExternalAPI(ctx, "provider", "quote")

	start := time.Now()
	resp, err := s.client.GetQuote(ctx, ticker)
	s.logger.LogProviderRequest(quotePath, ticker, statusFromError(err), time.Since(start).Milliseconds())
	if err != nil {
		observability.FinishSpan(span, err)
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", ticker, err)
	}

	quote, err := quoteFromResponse(ticker, resp)
	observability.FinishSpan(span, err)
	return quote, err
}

// FetchPriceHistory fetches five years of daily closes for a ticker.
func (s *Service) FetchPriceHistory(ctx context.Context, ticker string) (*models.PriceHistory, error) {
	ctx, span := observability.TraceMarketDataFetch(ctx, ticker, "chart")

	start := time.Now()
	resp, err := s.client.GetChart(ctx, ticker, PriceRange, PriceInterval)
	s.logger.LogProviderRequest(chartPath, ticker, statusFromError(err), time.Since(start).Milliseconds())
	if err != nil {
		observability.FinishSpan(span, err)
		return nil, fmt.Errorf("failed to fetch chart for %s: %w", ticker, err)
	}

	history, err := chartToPriceHistory(ticker, resp)
	observability.FinishSpan(span, err)
	if err != nil {
		return nil, err
	}

	observability.AddBreadcrumb(ctx, "provider", fmt.Sprintf("Price history fetched for %s", ticker), sentry.LevelInfo)
	return history, nil
}

// FetchStatements fetches the three annual statements for a ticker.
func (s *Service) FetchStatements(ctx context.Context, ticker string) (*Statements, error) {
	ctx, span := observability.TraceMarketDataFetch(ctx, ticker, "fundamentals")

	start := time.Now()
	resp, err := s.client.GetFundamentals(ctx, ticker)
	s.logger.LogProviderRequest(fundamentalsPath, ticker, statusFromError(err), time.Since(start).Milliseconds())
	if err != nil {
		observability.FinishSpan(span, err)
		observability.CaptureExceptionWithContext(ctx, err, "statement_fetch", map[string]interface{}{
			"ticker": ticker,
		})
		return nil, fmt.Errorf("failed to fetch statements for %s: %w", ticker, err)
	}
	observability.FinishSpan(span, nil)

	statements := &Statements{
		Ticker:    ticker,
		CashFlow:  toStatementTable(resp.CashFlow),
		Income:    toStatementTable(resp.Income),
		Balance:   toStatementTable(resp.Balance),
		FetchedAt: time.Now().UTC(),
	}

	observability.AddBreadcrumbWithData(ctx, "provider", "Statements fetched", sentry.LevelInfo, map[string]interface{}{
		"ticker":         ticker,
		"cash_flow_rows": len(statements.CashFlow.Rows),
		"income_rows":    len(statements.Income.Rows),
		"balance_rows":   len(statements.Balance.Rows),
	})

	return statements, nil
}

// IsHealthy checks if the provider is reachable.
func (s *Service) IsHealthy(ctx context.Context) bool {
	if err := s.client.Ping(ctx); err != nil {
		s.logger.WithError(err).Warn("Provider health check failed")
		return false
	}
	return true
}

// BaseURL returns the provider base URL for health reporting.
func (s *Service) BaseURL() string {
	return s.client.BaseURL()
}

// Close closes the market data service.
func (s *Service) Close() error {
	return s.client.Close()
}

// quoteFromResponse maps a quote response onto the domain quote.
func quoteFromResponse(ticker string, resp *QuoteResponse) (*Quote, error) {
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("quote response for %s has no result", ticker)
	}
	r := resp.QuoteResponse.Result[0]

	quote := &Quote{
		Ticker:   r.Symbol,
		Currency: r.Currency,
		Exchange: r.FullExchangeName,
		Price:    r.RegularMarketPrice,
		AsOf:     time.Now().UTC(),
	}
	if r.RegularMarketTime > 0 {
		quote.AsOf = time.Unix(r.RegularMarketTime, 0).UTC()
	}
	return quote, nil
}

// chartToPriceHistory converts a chart response into the domain series.
// Days the exchange reported no close are dropped.
func chartToPriceHistory(ticker string, resp *ChartResponse) (*models.PriceHistory, error) {
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart response for %s has no result", ticker)
	}
	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart response for %s has no quote series", ticker)
	}
	quote := result.Indicators.Quote[0]

	points := make([]models.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		points = append(points, models.PricePoint{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     decimal.NewFromFloat(*quote.Close[i]),
		})
	}

	return &models.PriceHistory{
		Ticker:      ticker,
		Currency:    result.Meta.Currency,
		MarketPrice: decimal.NewFromFloat(result.Meta.RegularMarketPrice),
		Points:      points,
	}, nil
}

// toStatementTable converts a wire statement document into the domain
// table. Unreported values become zero.
func toStatementTable(doc StatementDoc) models.StatementTable {
	table := models.StatementTable{
		Years: append([]int(nil), doc.Years...),
		Rows:  make([]models.StatementRow, 0, len(doc.Rows)),
	}
	for _, row := range doc.Rows {
		values := make([]float64, len(row.Values))
		for i, v := range row.Values {
			if v != nil {
				values[i] = *v
			}
		}
		table.Rows = append(table.Rows, models.StatementRow{Label: row.Label, Values: values})
	}
	return table
}

// statusFromError maps a request outcome to the HTTP status recorded in
// provider logs. Transport failures have no status and log zero.
func statusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.StatusCode
	}
	return 0
}
