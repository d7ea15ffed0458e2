package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationMetrics is the scalar metric strip of the dashboard.
type ValuationMetrics struct {
	MarketPrice    decimal.Decimal `json:"market_price"`
	FCFCAGRPct     decimal.Decimal `json:"fcf_cagr_pct"`
	WACCPct        decimal.Decimal `json:"wacc_pct"`
	IntrinsicValue decimal.Decimal `json:"intrinsic_value"`
	UpsidePct      decimal.Decimal `json:"upside_pct"`
}

// TableRow is one row of a dashboard table: raw amount plus the
// display-formatted text.
type TableRow struct {
	Label     string          `json:"label"`
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
}

// Table is a titled set of rows.
type Table struct {
	Title string     `json:"title"`
	Rows  []TableRow `json:"rows"`
}

// DashboardTables groups the four summary tables.
type DashboardTables struct {
	CapitalStructure Table `json:"capital_structure"`
	CostOfEquity     Table `json:"cost_of_equity"`
	CostOfDebt       Table `json:"cost_of_debt"`
	Valuation        Table `json:"valuation"`
}

// LineSeries is a timestamped series for line charts.
type LineSeries struct {
	Timestamps []int64           `json:"timestamps"`
	Values     []decimal.Decimal `json:"values"`
}

// BarSeries is a year-keyed series for bar charts. Color is a rendering
// hint, not a requirement on the client.
type BarSeries struct {
	Years  []int             `json:"years"`
	Values []decimal.Decimal `json:"values"`
	Color  string            `json:"color,omitempty"`
}

// TerminalPoint marks the terminal value one year past the forecast. Color
// is a rendering hint, not a requirement on the client.
type TerminalPoint struct {
	Year  int             `json:"year"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color,omitempty"`
}

// FCFChart combines historical and forecast bars with the terminal marker.
type FCFChart struct {
	Historical BarSeries     `json:"historical"`
	Forecast   BarSeries     `json:"forecast"`
	Terminal   TerminalPoint `json:"terminal"`
}

// DonutChart is a labeled composition chart. Hole is a rendering hint.
type DonutChart struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
	Hole   float64           `json:"hole"`
}

// DashboardCharts groups the three chart payloads.
type DashboardCharts struct {
	PriceHistory       LineSeries `json:"price_history"`
	FCF                FCFChart   `json:"fcf"`
	CapitalComposition DonutChart `json:"capital_composition"`
}

// DashboardResponse is the full valuation dashboard payload returned for
// one ticker submission.
type DashboardResponse struct {
	ID           string           `json:"id"`
	Ticker       string           `json:"ticker"`
	Country      string           `json:"country"`
	RiskFreeRate decimal.Decimal  `json:"risk_free_rate"`
	AsOf         time.Time        `json:"as_of"`
	Metrics      ValuationMetrics `json:"metrics"`
	Tables       DashboardTables  `json:"tables"`
	Charts       DashboardCharts  `json:"charts"`
}
