package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint represents one daily close observation.
type PricePoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Close     decimal.Decimal `json:"close"`
}

// PriceHistory represents the close-price series for a ticker.
type PriceHistory struct {
	Ticker      string          `json:"ticker"`
	Currency    string          `json:"currency,omitempty"`
	MarketPrice decimal.Decimal `json:"market_price"`
	Points      []PricePoint    `json:"points"`
}

// StatementRow is one labeled line item of an annual financial statement.
// Values are ordered most recent year first, matching Years on the table.
type StatementRow struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// StatementTable is a label-addressable annual statement (cash flow,
// income, or balance sheet). Years are fiscal years, most recent first.
type StatementTable struct {
	Years []int          `json:"years"`
	Rows  []StatementRow `json:"rows"`
}

// Row returns the line item with the given label.
func (t *StatementTable) Row(label string) (StatementRow, bool) {
	for _, row := range t.Rows {
		if row.Label == label {
			return row, true
		}
	}
	return StatementRow{}, false
}

// Value returns the most recent value for label, or def when the label is
// missing or has no values.
func (t *StatementTable) Value(label string, def float64) float64 {
	row, ok := t.Row(label)
	if !ok || len(row.Values) == 0 {
		return def
	}
	return row.Values[0]
}

// RecentValues returns up to n of the most recent values for label,
// reordered oldest first. A missing label yields an empty slice.
func (t *StatementTable) RecentValues(label string, n int) []float64 {
	row, ok := t.Row(label)
	if !ok {
		return nil
	}
	if n > len(row.Values) {
		n = len(row.Values)
	}
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		// Row values are most recent first; callers want oldest first.
		values[i] = row.Values[n-1-i]
	}
	return values
}

// RecentYears returns up to n of the most recent fiscal years, oldest first.
func (t *StatementTable) RecentYears(n int) []int {
	if n > len(t.Years) {
		n = len(t.Years)
	}
	years := make([]int, n)
	for i := 0; i < n; i++ {
		years[i] = t.Years[n-1-i]
	}
	return years
}

// CompanyFinancials is the per-request snapshot the valuation pipeline
// consumes: price, cash-flow statement, income statement, and balance
// sheet for one ticker. It is built once per request and never mutated.
type CompanyFinancials struct {
	Ticker      string         `json:"ticker"`
	MarketPrice float64        `json:"market_price"`
	CashFlow    StatementTable `json:"cash_flow"`
	Income      StatementTable `json:"income"`
	Balance     StatementTable `json:"balance"`
	FetchedAt   time.Time      `json:"fetched_at"`
}
