package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ValuationTracer provides utilities for tracing valuation pipeline operations.
// It allows detailed tracking of domain-specific activities like statement
// fetching, cash flow forecasting and discounting.
type ValuationTracer struct {
	tracer trace.Tracer
}

// NewValuationTracer creates a new instance of ValuationTracer.
//
// Returns:
//   - A pointer to an initialized ValuationTracer.
func NewValuationTracer() *ValuationTracer {
	return &ValuationTracer{tracer: GetValuationTracer()}
}

// TracePriceHistory starts a span for tracing the collection of price history.
//
// Parameters:
//   - ctx: The context to attach the span to.
//   - ticker: The ticker whose price history is being collected.
//   - dataRange: The requested range, e.g. "5y".
//   - interval: The requested candle interval, e.g. "1d".
//
// Returns:
//   - A context containing the new span.
//   - The created span.
func (vt *ValuationTracer) TracePriceHistory(ctx context.Context, ticker string, dataRange string, interval string) (context.Context, trace.Span) {
	ctx, span := vt.tracer.Start(ctx, "price_history")
	span.SetAttributes(
		attribute.String("ticker", ticker),
		attribute.String("range", dataRange),
		attribute.String("interval", interval),
	)
	return ctx, span
}

// RecordPriceHistoryMetrics records metrics about a price history collection onto a span.
//
// Parameters:
//   - span: The span to update.
//   - metrics: The collection metrics to record.
func (vt *ValuationTracer) RecordPriceHistoryMetrics(span trace.Span, metrics PriceHistoryMetrics) {
	span.SetAttributes(
		attribute.Int("point_count", metrics.PointCount),
		attribute.Int64("collection_time_ms", metrics.CollectionTime.Milliseconds()),
		attribute.String("currency", metrics.Currency),
		attribute.Float64("market_price", metrics.MarketPrice),
	)
}

// TraceStatementFetch starts a span for tracing the retrieval of financial statements.
//
// Parameters:
//   - ctx: The context to attach the span to.
//   - ticker: The ticker whose statements are being fetched.
//   - statements: The statement kinds being requested.
//
// Returns:
//   - A context containing the new span.
//   - The created span.
func (vt *ValuationTracer) TraceStatementFetch(ctx context.Context, ticker string, statements []string) (context.Context, trace.Span) {
	ctx, span := vt.tracer.Start(ctx, "statement_fetch")
	span.SetAttributes(
		attribute.String("ticker", ticker),
		attribute.StringSlice("statements", statements),
	)
	return ctx, span
}

// RecordFetchMetrics records metrics about a statement fetch onto a span.
//
// Parameters:
//   - span: The span to update.
//   - metrics: The fetch metrics to record.
func (vt *ValuationTracer) RecordFetchMetrics(span trace.Span, metrics FetchMetrics) {
	span.SetAttributes(
		attribute.Int("row_count", metrics.RowCount),
		attribute.Int64("fetch_time_ms", metrics.FetchTime.Milliseconds()),
		attribute.String("endpoint", metrics.Endpoint),
		attribute.Int("status_code", metrics.StatusCode),
	)
	if metrics.StatusCode >= 400 {
		span.SetStatus(codes.Error, "statement fetch failed")
	}
}

// TraceForecast starts a span for tracing a free cash flow forecast.
//
// Parameters:
//   - ctx: The context to attach the span to.
//   - ticker: The ticker being forecast.
//   - horizonYears: The number of forecast years.
//
// Returns:
//   - A context containing the new span.
//   - The created span.
func (vt *ValuationTracer) TraceForecast(ctx context.Context, ticker string, horizonYears int) (context.Context, trace.Span) {
	ctx, span := vt.tracer.Start(ctx, "fcf_forecast")
	span.SetAttributes(
		attribute.String("ticker", ticker),
		attribute.Int("horizon_years", horizonYears),
	)
	return ctx, span
}

// RecordForecastOutcome records the outcome of a cash flow forecast onto a span.
//
// Parameters:
//   - span: The span to update.
//   - outcome: The forecast outcome to record.
func (vt *ValuationTracer) RecordForecastOutcome(span trace.Span, outcome ForecastOutcome) {
	span.SetAttributes(
		attribute.Float64("base_value", outcome.BaseValue),
		attribute.Float64("growth_rate", outcome.GrowthRate),
		attribute.Float64("terminal_value", outcome.TerminalValue),
		attribute.Float64("cagr", outcome.CAGR),
		attribute.Int("history_points", outcome.HistoryPoints),
		attribute.Bool("degenerate", outcome.Degenerate),
	)
}

// TraceDiscounting starts a span for tracing WACC derivation and discounting.
//
// Parameters:
//   - ctx: The context to attach the span to.
//   - ticker: The ticker being valued.
//
// Returns:
//   - A context containing the new span.
//   - The created span.
func (vt *ValuationTracer) TraceDiscounting(ctx context.Context, ticker string) (context.Context, trace.Span) {
	ctx, span := vt.tracer.Start(ctx, "dcf_discounting")
	span.SetAttributes(attribute.String("ticker", ticker))
	return ctx, span
}

// RecordValuationOutcome records the final valuation figures onto a span.
//
// Parameters:
//   - span: The span to update.
//   - outcome: The valuation outcome to record.
func (vt *ValuationTracer) RecordValuationOutcome(span trace.Span, outcome ValuationOutcome) {
	span.SetAttributes(
		attribute.Float64("wacc", outcome.WACC),
		attribute.Float64("enterprise_value", outcome.EnterpriseValue),
		attribute.Float64("equity_value", outcome.EquityValue),
		attribute.Float64("intrinsic_value", outcome.IntrinsicValue),
		attribute.Float64("market_price", outcome.MarketPrice),
		attribute.Float64("upside_percent", outcome.UpsidePercent),
	)
}

// PriceHistoryMetrics defines the structure for tracking price history collection statistics in telemetry.
type PriceHistoryMetrics struct {
	PointCount     int
	CollectionTime time.Duration
	Currency       string
	MarketPrice    float64
}

// FetchMetrics defines the structure for tracking statement fetch statistics in telemetry.
type FetchMetrics struct {
	RowCount   int
	FetchTime  time.Duration
	Endpoint   string
	StatusCode int
}

// ForecastOutcome defines the structure for tracking forecast results in telemetry.
type ForecastOutcome struct {
	BaseValue     float64
	GrowthRate    float64
	TerminalValue float64
	CAGR          float64
	HistoryPoints int
	Degenerate    bool
}

// ValuationOutcome defines the structure for tracking final valuation figures in telemetry.
type ValuationOutcome struct {
	WACC            float64
	EnterpriseValue float64
	EquityValue     float64
	IntrinsicValue  float64
	MarketPrice     float64
	UpsidePercent   float64
}
