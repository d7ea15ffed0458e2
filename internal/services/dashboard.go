package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/raditia/intrival-go/internal/models"
)

// Chart rendering hints matching the dashboard theme.
const (
	historicalBarColor  = "#f39c12"
	forecastBarColor    = "#3498db"
	terminalMarkerColor = "#fab1a0"
	donutHole           = 0.4
)

var amountPrinter = message.NewPrinter(language.English)

// assembleDashboard shapes one pipeline run into the dashboard payload.
func (s *ValuationService) assembleDashboard(ticker string, country string, riskFreePct float64, history *models.PriceHistory, run valuationRun) *models.DashboardResponse {
	return &models.DashboardResponse{
		ID:           uuid.New().String(),
		Ticker:       ticker,
		Country:      normalizeCountry(country),
		RiskFreeRate: toDecimal(riskFreePct),
		AsOf:         time.Now().UTC(),
		Metrics: models.ValuationMetrics{
			MarketPrice:    toDecimal(run.result.MarketPrice),
			FCFCAGRPct:     toDecimal(run.forecast.CAGR * 100),
			WACCPct:        toDecimal(run.rates.WACC * 100),
			IntrinsicValue: toDecimal(run.result.IntrinsicValue),
			UpsidePct:      toDecimal(run.result.UpsidePercent),
		},
		Tables: models.DashboardTables{
			CapitalStructure: capitalStructureTable(run.capital),
			CostOfEquity:     costOfEquityTable(run.rates),
			CostOfDebt:       costOfDebtTable(run.rates),
			Valuation:        valuationTable(run.result, run.capital),
		},
		Charts: models.DashboardCharts{
			PriceHistory:       priceSeries(history),
			FCF:                fcfChart(run.forecast),
			CapitalComposition: capitalDonut(run.capital),
		},
	}
}

func capitalStructureTable(capital models.CapitalStructure) models.Table {
	return models.Table{
		Title: "Capital Structure",
		Rows: []models.TableRow{
			amountRow("Equity", capital.TotalEquity),
			amountRow("Debt", capital.TotalDebt),
			amountRow("Assets", capital.TotalCapital),
		},
	}
}

func costOfEquityTable(rates models.DiscountRates) models.Table {
	return models.Table{
		Title: "Cost of Equity",
		Rows: []models.TableRow{
			percentRow("Risk-Free Rate", rates.RiskFreeRate),
			percentRow("Equity Risk Premium", rates.EquityRiskPremium*100),
			percentRow("Country Risk Premium", rates.CountryRiskPremium*100),
			percentRow("Final Cost of Equity", rates.CostOfEquity*100),
		},
	}
}

func costOfDebtTable(rates models.DiscountRates) models.Table {
	return models.Table{
		Title: "Cost of Debt",
		Rows: []models.TableRow{
			amountRow("Interest Expense", rates.InterestExpense),
			percentRow("Pretax Cost of Debt", rates.PretaxCostOfDebt),
			percentRow("Effective Tax Rate", rates.TaxRate*100),
			percentRow("After-Tax Cost of Debt", rates.AfterTaxCostOfDebt),
		},
	}
}

func valuationTable(result models.ValuationResult, capital models.CapitalStructure) models.Table {
	discounted := 0.0
	for _, v := range result.DiscountedFCF {
		discounted += v
	}
	return models.Table{
		Title: "Final DCF Valuation Result",
		Rows: []models.TableRow{
			amountRow("Discounted FCF (5 Years)", discounted),
			amountRow("Discounted Terminal Value", result.DiscountedTerminal),
			amountRow("Enterprise Value", result.EnterpriseValue),
			amountRow("Net Debt", capital.NetDebt),
			amountRow("Equity Value", result.EquityValue),
			amountRow("Shares Outstanding", capital.SharesOutstanding),
			amountRow("Intrinsic Value per Share", result.IntrinsicValue),
		},
	}
}

func priceSeries(history *models.PriceHistory) models.LineSeries {
	series := models.LineSeries{
		Timestamps: make([]int64, len(history.Points)),
		Values:     make([]decimal.Decimal, len(history.Points)),
	}
	for i, point := range history.Points {
		series.Timestamps[i] = point.Timestamp.Unix()
		series.Values[i] = point.Close
	}
	return series
}

func fcfChart(forecast models.ForecastSeries) models.FCFChart {
	chart := models.FCFChart{
		Historical: models.BarSeries{
			Years:  forecast.HistoricalYears,
			Values: toDecimals(forecast.Historical),
			Color:  historicalBarColor,
		},
		Forecast: models.BarSeries{
			Years:  forecast.ForecastYears,
			Values: toDecimals(forecast.Forecast),
			Color:  forecastBarColor,
		},
		Terminal: models.TerminalPoint{
			Value: toDecimal(forecast.TerminalValue),
			Color: terminalMarkerColor,
		},
	}
	// The terminal marker sits one year past the forecast window.
	if len(forecast.ForecastYears) > 0 {
		chart.Terminal.Year = forecast.ForecastYears[len(forecast.ForecastYears)-1] + 1
	}
	return chart
}

func capitalDonut(capital models.CapitalStructure) models.DonutChart {
	return models.DonutChart{
		Labels: []string{"Equity", "Debt"},
		Values: []decimal.Decimal{toDecimal(capital.TotalEquity), toDecimal(capital.TotalDebt)},
		Hole:   donutHole,
	}
}

func amountRow(label string, v float64) models.TableRow {
	v = finiteOr(v, 0)
	return models.TableRow{Label: label, Amount: decimal.NewFromFloat(v), Formatted: formatAmount(v)}
}

func percentRow(label string, pct float64) models.TableRow {
	pct = finiteOr(pct, 0)
	return models.TableRow{Label: label, Amount: decimal.NewFromFloat(pct), Formatted: formatPercent(pct)}
}

// formatAmount renders a grouped-thousands figure with no fraction digits,
// e.g. 9,100,000,000,000.
func formatAmount(v float64) string {
	return amountPrinter.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(0)))
}

// formatPercent renders a percent with two fraction digits, e.g. 5.50%.
func formatPercent(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

// normalizeCountry title-cases a country name, so "indonesia" and
// "INDONESIA" both become "Indonesia".
func normalizeCountry(country string) string {
	country = strings.TrimSpace(country)
	if country == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ToLower(country))
}

// toDecimal converts a computed float for the payload. NewFromFloat panics
// on NaN and Inf, which the CAGR and upside formulas can produce on
// degenerate inputs.
func toDecimal(v float64) decimal.Decimal {
	return decimal.NewFromFloat(finiteOr(v, 0))
}

func toDecimals(values []float64) []decimal.Decimal {
	if len(values) == 0 {
		return nil
	}
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = toDecimal(v)
	}
	return out
}

func finiteOr(v float64, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
