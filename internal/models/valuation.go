package models

// ForecastSeries holds the projected free-cash-flow path: five forward
// years plus a terminal value, alongside the historical window it was
// derived from. Immutable once computed.
type ForecastSeries struct {
	HistoricalYears []int     `json:"historical_years"`
	Historical      []float64 `json:"historical"`
	ForecastYears   []int     `json:"forecast_years"`
	Forecast        []float64 `json:"forecast"`
	BaseValue       float64   `json:"base_value"`
	GrowthRate      float64   `json:"growth_rate"`
	TerminalValue   float64   `json:"terminal_value"`
	CAGR            float64   `json:"cagr"`
}

// CapitalStructure holds the balance-sheet aggregates the discount rate
// and equity bridge are built from.
type CapitalStructure struct {
	TotalEquity       float64 `json:"total_equity"`
	TotalDebt         float64 `json:"total_debt"`
	Cash              float64 `json:"cash"`
	NetDebt           float64 `json:"net_debt"`
	SharesOutstanding float64 `json:"shares_outstanding"`
	TotalCapital      float64 `json:"total_capital"`
}

// DiscountRates breaks a WACC down into its cost-of-equity and
// cost-of-debt components. Rate units follow the source formulas:
// CostOfEquity and WACC are decimals, the cost-of-debt legs are percents.
type DiscountRates struct {
	RiskFreeRate       float64 `json:"risk_free_rate"`
	EquityRiskPremium  float64 `json:"equity_risk_premium"`
	CountryRiskPremium float64 `json:"country_risk_premium"`
	CostOfEquity       float64 `json:"cost_of_equity"`
	InterestExpense    float64 `json:"interest_expense"`
	PretaxCostOfDebt   float64 `json:"pretax_cost_of_debt"`
	TaxRate            float64 `json:"tax_rate"`
	AfterTaxCostOfDebt float64 `json:"after_tax_cost_of_debt"`
	EquityWeight       float64 `json:"equity_weight"`
	DebtWeight         float64 `json:"debt_weight"`
	WACC               float64 `json:"wacc"`
}

// ValuationResult is the final output of the pipeline: discounted
// forecast, enterprise and equity values, per-share intrinsic value and
// the upside against the market price.
type ValuationResult struct {
	DiscountedFCF      []float64 `json:"discounted_fcf"`
	DiscountedTerminal float64   `json:"discounted_terminal"`
	EnterpriseValue    float64   `json:"enterprise_value"`
	EquityValue        float64   `json:"equity_value"`
	IntrinsicValue     float64   `json:"intrinsic_value"`
	MarketPrice        float64   `json:"market_price"`
	UpsidePercent      float64   `json:"upside_percent"`
}
