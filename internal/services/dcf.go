package services

import (
	"math"

	"github.com/raditia/intrival-go/internal/models"
)

// Statement line labels as the market data provider reports them.
const (
	fcfLabel         = "Free Cash Flow"
	totalEquityLabel = "Total Equity Gross Minority Interest"
	totalDebtLabel   = "Total Debt"
	cashLabel        = "Cash And Cash Equivalents"
	sharesLabel      = "Ordinary Shares Number"
	interestLabel    = "Interest Expense"
	taxRateLabel     = "Tax Rate For Calcs"
)

// DCFCalculator handles all calculations for the intrinsic-value pipeline:
// free cash flow forecasting, cost of capital and the discounted valuation.
type DCFCalculator struct {
	// Configuration
	GrowthRate         float64 // Annual FCF growth applied over the forecast horizon
	TerminalGrowth     float64 // Step-up from the final forecast year to the terminal value
	ForecastHorizon    int     // Number of forecast years
	HistoryWindow      int     // Annual FCF observations averaged into the base value
	EquityRiskPremium  float64 // Damodaran equity risk premium
	CountryRiskPremium float64 // Damodaran country risk premium
	DefaultTaxRate     float64 // Effective tax rate when the income statement has none
	FallbackPretaxCoD  float64 // Pretax cost of debt (percent) when interest or debt is zero
	FallbackWACC       float64 // Discount rate when total capital is zero
}

// NewDCFCalculator creates a new calculator instance
func NewDCFCalculator() *DCFCalculator {
	return &DCFCalculator{
		GrowthRate:         0.17,
		TerminalGrowth:     0.03,
		ForecastHorizon:    5,
		HistoryWindow:      4,
		EquityRiskPremium:  0.029, // 2.90%
		CountryRiskPremium: 0.025, // 2.50%
		DefaultTaxRate:     0.241,
		FallbackPretaxCoD:  5,
		FallbackWACC:       0.1,
	}
}

// ForecastFreeCashFlow projects the forecast-horizon FCF path from the
// historical values. History and years are ordered oldest first; both may be
// shorter than the window when the provider reports fewer fiscal years. An
// empty history yields an all-zero forecast rather than an error.
func (calc *DCFCalculator) ForecastFreeCashFlow(history []float64, years []int) models.ForecastSeries {
	series := models.ForecastSeries{
		Historical:      history,
		HistoricalYears: years,
		GrowthRate:      calc.GrowthRate,
		Forecast:        make([]float64, calc.ForecastHorizon),
	}

	if len(history) == 0 {
		// No FCF line item: degenerate zero forecast, zero terminal value.
		return series
	}

	sum := 0.0
	for _, v := range history {
		sum += v
	}
	series.BaseValue = sum / float64(len(history))

	// forecast[i] = base * (1 + growth)^(i+1)
	for i := 0; i < calc.ForecastHorizon; i++ {
		series.Forecast[i] = series.BaseValue * math.Pow(1+calc.GrowthRate, float64(i+1))
	}
	series.TerminalValue = series.Forecast[calc.ForecastHorizon-1] * (1 + calc.TerminalGrowth)

	if len(years) > 0 {
		lastYear := years[len(years)-1]
		series.ForecastYears = make([]int, calc.ForecastHorizon)
		for i := range series.ForecastYears {
			series.ForecastYears[i] = lastYear + i + 1
		}
	}

	series.CAGR = calc.compoundGrowth(history[0], series.Forecast[calc.ForecastHorizon-1])
	return series
}

// compoundGrowth annualizes the growth from the first historical value to
// the final forecast value. The exponent spans the full window plus horizon
// regardless of how many historical observations were actually available.
func (calc *DCFCalculator) compoundGrowth(first float64, final float64) float64 {
	if first == 0 {
		return 0
	}
	periods := float64(calc.HistoryWindow + calc.ForecastHorizon)
	return math.Pow(final/first, 1/periods) - 1
}

// CapitalStructure extracts the balance-sheet aggregates the discount rate
// and equity bridge are built from. Missing line items default to zero.
func (calc *DCFCalculator) CapitalStructure(balance models.StatementTable) models.CapitalStructure {
	equity := balance.Value(totalEquityLabel, 0)
	debt := balance.Value(totalDebtLabel, 0)
	cash := balance.Value(cashLabel, 0)

	return models.CapitalStructure{
		TotalEquity:       equity,
		TotalDebt:         debt,
		Cash:              cash,
		NetDebt:           debt - cash,
		SharesOutstanding: balance.Value(sharesLabel, 0),
		TotalCapital:      equity + debt,
	}
}

// DiscountRates derives the cost of equity, cost of debt and WACC from the
// capital structure and the income statement. The risk-free rate is a
// percent, e.g. 5.50 for 5.5%.
func (calc *DCFCalculator) DiscountRates(riskFreePct float64, capital models.CapitalStructure, income models.StatementTable) models.DiscountRates {
	rates := models.DiscountRates{
		RiskFreeRate:       riskFreePct,
		EquityRiskPremium:  calc.EquityRiskPremium,
		CountryRiskPremium: calc.CountryRiskPremium,
		InterestExpense:    income.Value(interestLabel, 0),
		TaxRate:            income.Value(taxRateLabel, calc.DefaultTaxRate),
	}

	rates.CostOfEquity = riskFreePct/100 + calc.EquityRiskPremium + calc.CountryRiskPremium

	// Pretax cost of debt is in percent; the fallback covers tickers that
	// report no interest expense or no debt.
	if rates.InterestExpense != 0 && capital.TotalDebt != 0 {
		rates.PretaxCostOfDebt = rates.InterestExpense / capital.TotalDebt * 100
	} else {
		rates.PretaxCostOfDebt = calc.FallbackPretaxCoD
	}
	rates.AfterTaxCostOfDebt = rates.PretaxCostOfDebt * (1 - rates.TaxRate)

	if capital.TotalCapital == 0 {
		rates.WACC = calc.FallbackWACC
		return rates
	}

	rates.EquityWeight = capital.TotalEquity / capital.TotalCapital
	rates.DebtWeight = capital.TotalDebt / capital.TotalCapital
	rates.WACC = rates.EquityWeight*rates.CostOfEquity + rates.DebtWeight*rates.AfterTaxCostOfDebt/100
	return rates
}

// DiscountCashFlows discounts the forecast and terminal value at the WACC
// and bridges enterprise value to a per-share intrinsic value.
func (calc *DCFCalculator) DiscountCashFlows(forecast models.ForecastSeries, rates models.DiscountRates, capital models.CapitalStructure, marketPrice float64) models.ValuationResult {
	result := models.ValuationResult{
		DiscountedFCF: make([]float64, len(forecast.Forecast)),
		MarketPrice:   marketPrice,
	}

	sum := 0.0
	for i, value := range forecast.Forecast {
		result.DiscountedFCF[i] = value / math.Pow(1+rates.WACC, float64(i+1))
		sum += result.DiscountedFCF[i]
	}
	result.DiscountedTerminal = forecast.TerminalValue / math.Pow(1+rates.WACC, float64(len(forecast.Forecast)))

	result.EnterpriseValue = sum + result.DiscountedTerminal
	result.EquityValue = result.EnterpriseValue - capital.NetDebt

	if capital.SharesOutstanding != 0 {
		result.IntrinsicValue = result.EquityValue / capital.SharesOutstanding
	}
	if marketPrice != 0 {
		result.UpsidePercent = (result.IntrinsicValue - marketPrice) / marketPrice * 100
	}
	return result
}
