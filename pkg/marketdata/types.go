package marketdata

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/raditia/intrival-go/internal/models"
)

// ProviderError is returned when the provider answers with a non-2xx status.
type ProviderError struct {
	StatusCode int
	Message    string
}

// Error returns the formatted provider error string.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("market data provider error (%d): %s", e.StatusCode, e.Message)
}

// APIError is the error object the provider embeds in otherwise
// well-formed responses.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ChartResponse represents the response from /v8/finance/chart/{ticker}
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *APIError     `json:"error"`
	} `json:"chart"`
}

// ChartResult is one chart series with its metadata.
type ChartResult struct {
	Meta       ChartMeta       `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators ChartIndicators `json:"indicators"`
}

// ChartMeta carries the quote metadata attached to a chart series.
type ChartMeta struct {
	Currency             string  `json:"currency"`
	Symbol               string  `json:"symbol"`
	ExchangeName         string  `json:"exchangeName"`
	FullExchangeName     string  `json:"fullExchangeName,omitempty"`
	InstrumentType       string  `json:"instrumentType,omitempty"`
	RegularMarketPrice   float64 `json:"regularMarketPrice"`
	RegularMarketTime    int64   `json:"regularMarketTime,omitempty"`
	ChartPreviousClose   float64 `json:"chartPreviousClose,omitempty"`
	PreviousClose        float64 `json:"previousClose,omitempty"`
	DataGranularity      string  `json:"dataGranularity,omitempty"`
	Range                string  `json:"range,omitempty"`
	ExchangeTimezoneName string  `json:"exchangeTimezoneName,omitempty"`
}

// ChartIndicators holds the per-candle series of a chart result.
type ChartIndicators struct {
	Quote []ChartQuote `json:"quote"`
}

// ChartQuote holds OHLCV arrays aligned with the result timestamps.
// Entries are null for days the exchange reported no trade.
type ChartQuote struct {
	Open   []*float64 `json:"open,omitempty"`
	High   []*float64 `json:"high,omitempty"`
	Low    []*float64 `json:"low,omitempty"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume,omitempty"`
}

// QuoteResponse represents the response from /v7/finance/quote
type QuoteResponse struct {
	QuoteResponse struct {
		Result []QuoteResult `json:"result"`
		Error  *APIError     `json:"error"`
	} `json:"quoteResponse"`
}

// QuoteResult is one quoted instrument.
type QuoteResult struct {
	Symbol             string          `json:"symbol"`
	Currency           string          `json:"currency"`
	FullExchangeName   string          `json:"fullExchangeName,omitempty"`
	RegularMarketPrice decimal.Decimal `json:"regularMarketPrice"`
	RegularMarketTime  int64           `json:"regularMarketTime,omitempty"`
	MarketCap          decimal.Decimal `json:"marketCap,omitempty"`
	LongName           string          `json:"longName,omitempty"`
	ShortName          string          `json:"shortName,omitempty"`
}

// FundamentalsResponse represents the response from the annual statements
// endpoint: the three statements as label-keyed tables, fiscal years most
// recent first.
type FundamentalsResponse struct {
	Symbol    string       `json:"symbol"`
	CashFlow  StatementDoc `json:"cash_flow"`
	Income    StatementDoc `json:"income_statement"`
	Balance   StatementDoc `json:"balance_sheet"`
	Timestamp time.Time    `json:"timestamp"`
}

// StatementDoc is one annual statement on the wire.
type StatementDoc struct {
	Years []int          `json:"years"`
	Rows  []StatementRow `json:"rows"`
}

// StatementRow is one labeled line item. Values align with the document
// years; null marks a year the item was not reported.
type StatementRow struct {
	Label  string     `json:"label"`
	Values []*float64 `json:"values"`
}

// Quote is the domain-level market quote assembled from the provider
// response.
type Quote struct {
	Ticker   string          `json:"ticker"`
	Currency string          `json:"currency,omitempty"`
	Exchange string          `json:"exchange,omitempty"`
	Price    decimal.Decimal `json:"price"`
	AsOf     time.Time       `json:"as_of"`
}

// Statements bundles the three annual statements for one ticker.
type Statements struct {
	Ticker    string                `json:"ticker"`
	CashFlow  models.StatementTable `json:"cash_flow"`
	Income    models.StatementTable `json:"income"`
	Balance   models.StatementTable `json:"balance"`
	FetchedAt time.Time             `json:"fetched_at"`
}
