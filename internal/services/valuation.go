package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/raditia/intrival-go/internal/models"
	"github.com/raditia/intrival-go/internal/observability"
	"github.com/raditia/intrival-go/internal/telemetry"
	"github.com/raditia/intrival-go/pkg/marketdata"
)

// Valuer builds the valuation dashboard for one ticker submission.
type Valuer interface {
	BuildDashboard(ctx context.Context, ticker string, riskFreePct float64, country string) (*models.DashboardResponse, error)
}

// ValuationService runs the full intrinsic-value pipeline for a ticker:
// fetch price history and statements, forecast free cash flow, derive the
// WACC and discount everything back to a per-share value. Every request
// fetches fresh provider data; nothing is held between calls.
type ValuationService struct {
	market     marketdata.MarketDataService
	calculator *DCFCalculator
	tracer     *telemetry.ValuationTracer
	logger     *logrus.Logger
}

var _ Valuer = (*ValuationService)(nil)

// NewValuationService creates a new valuation service instance
func NewValuationService(market marketdata.MarketDataService, calculator *DCFCalculator, tracer *telemetry.ValuationTracer, logger *logrus.Logger) *ValuationService {
	if logger == nil {
		logger = logrus.New()
	}
	return &ValuationService{
		market:     market,
		calculator: calculator,
		tracer:     tracer,
		logger:     logger,
	}
}

// valuationRun bundles the intermediate artifacts of one pipeline run.
type valuationRun struct {
	forecast models.ForecastSeries
	capital  models.CapitalStructure
	rates    models.DiscountRates
	result   models.ValuationResult
}

// BuildDashboard fetches the ticker's market data, values the company and
// assembles the dashboard payload.
func (s *ValuationService) BuildDashboard(ctx context.Context, ticker string, riskFreePct float64, country string) (resp *models.DashboardResponse, err error) {
	ctx, span := observability.TraceValuation(ctx, ticker)
	defer func() { observability.FinishSpan(span, err) }()
	defer observability.RecoverAndCapture(ctx, observability.SpanOpValuation)

	fin, history, err := s.fetchFinancials(ctx, ticker)
	if err != nil {
		return nil, err
	}

	run := s.compute(ctx, fin, riskFreePct)

	_, dashSpan := observability.StartSpanWithTags(ctx, observability.SpanOpDashboard, fmt.Sprintf("dashboard %s", ticker), map[string]string{
		"ticker":  ticker,
		"country": country,
	})
	resp = s.assembleDashboard(ticker, country, riskFreePct, history, run)
	observability.FinishSpan(dashSpan, nil)

	s.logger.WithFields(logrus.Fields{
		"ticker":          ticker,
		"wacc":            run.rates.WACC,
		"intrinsic_value": run.result.IntrinsicValue,
		"upside_percent":  run.result.UpsidePercent,
	}).Info("Valuation dashboard assembled")

	return resp, nil
}

// fetchFinancials pulls the price history and the three annual statements
// for the ticker and snapshots them into a CompanyFinancials. The market
// price is the most recent daily close.
func (s *ValuationService) fetchFinancials(ctx context.Context, ticker string) (*models.CompanyFinancials, *models.PriceHistory, error) {
	pCtx, pSpan := s.tracer.TracePriceHistory(ctx, ticker, marketdata.PriceRange, marketdata.PriceInterval)
	start := time.Now()
	history, err := s.market.FetchPriceHistory(pCtx, ticker)
	if err != nil {
		pSpan.RecordError(err)
		pSpan.End()
		observability.CaptureException(pCtx, err)
		return nil, nil, fmt.Errorf("failed to fetch price history: %w", err)
	}
	marketPrice := lastClose(history)
	s.tracer.RecordPriceHistoryMetrics(pSpan, telemetry.PriceHistoryMetrics{
		PointCount:     len(history.Points),
		CollectionTime: time.Since(start),
		Currency:       history.Currency,
		MarketPrice:    marketPrice,
	})
	pSpan.End()

	if len(history.Points) == 0 {
		return nil, nil, fmt.Errorf("price history for %s has no data points", ticker)
	}

	sCtx, sSpan := s.tracer.TraceStatementFetch(ctx, ticker, []string{"cash_flow", "income", "balance"})
	start = time.Now()
	statements, err := s.market.FetchStatements(sCtx, ticker)
	if err != nil {
		sSpan.RecordError(err)
		s.tracer.RecordFetchMetrics(sSpan, telemetry.FetchMetrics{
			FetchTime:  time.Since(start),
			Endpoint:   "statements",
			StatusCode: providerStatus(err),
		})
		sSpan.End()
		return nil, nil, fmt.Errorf("failed to fetch financial statements: %w", err)
	}
	s.tracer.RecordFetchMetrics(sSpan, telemetry.FetchMetrics{
		RowCount:   len(statements.CashFlow.Rows) + len(statements.Income.Rows) + len(statements.Balance.Rows),
		FetchTime:  time.Since(start),
		Endpoint:   "statements",
		StatusCode: http.StatusOK,
	})
	sSpan.End()

	fin := &models.CompanyFinancials{
		Ticker:      ticker,
		MarketPrice: marketPrice,
		CashFlow:    statements.CashFlow,
		Income:      statements.Income,
		Balance:     statements.Balance,
		FetchedAt:   statements.FetchedAt,
	}
	return fin, history, nil
}

// compute values the company from the fetched snapshot.
func (s *ValuationService) compute(ctx context.Context, fin *models.CompanyFinancials, riskFreePct float64) valuationRun {
	_, fSpan := s.tracer.TraceForecast(ctx, fin.Ticker, s.calculator.ForecastHorizon)
	values := fin.CashFlow.RecentValues(fcfLabel, s.calculator.HistoryWindow)
	years := fin.CashFlow.RecentYears(len(values))
	forecast := s.calculator.ForecastFreeCashFlow(values, years)
	s.tracer.RecordForecastOutcome(fSpan, telemetry.ForecastOutcome{
		BaseValue:     forecast.BaseValue,
		GrowthRate:    forecast.GrowthRate,
		TerminalValue: forecast.TerminalValue,
		CAGR:          forecast.CAGR,
		HistoryPoints: len(values),
		Degenerate:    len(values) == 0,
	})
	fSpan.End()

	_, dSpan := s.tracer.TraceDiscounting(ctx, fin.Ticker)
	capital := s.calculator.CapitalStructure(fin.Balance)
	rates := s.calculator.DiscountRates(riskFreePct, capital, fin.Income)
	result := s.calculator.DiscountCashFlows(forecast, rates, capital, fin.MarketPrice)
	s.tracer.RecordValuationOutcome(dSpan, telemetry.ValuationOutcome{
		WACC:            rates.WACC,
		EnterpriseValue: result.EnterpriseValue,
		EquityValue:     result.EquityValue,
		IntrinsicValue:  result.IntrinsicValue,
		MarketPrice:     result.MarketPrice,
		UpsidePercent:   result.UpsidePercent,
	})
	dSpan.End()

	return valuationRun{forecast: forecast, capital: capital, rates: rates, result: result}
}

// lastClose returns the most recent daily close, or 0 for an empty history.
func lastClose(history *models.PriceHistory) float64 {
	if len(history.Points) == 0 {
		return 0
	}
	return history.Points[len(history.Points)-1].Close.InexactFloat64()
}

// providerStatus maps a fetch error to the HTTP status recorded on spans.
// Transport failures carry no status; they are reported as a bad gateway.
func providerStatus(err error) int {
	var provErr *marketdata.ProviderError
	if errors.As(err, &provErr) {
		return provErr.StatusCode
	}
	return http.StatusBadGateway
}
