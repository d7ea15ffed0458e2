package api

import (
	"github.com/gin-gonic/gin"

	"github.com/raditia/intrival-go/internal/api/handlers"
	"github.com/raditia/intrival-go/internal/config"
	"github.com/raditia/intrival-go/internal/logging"
	"github.com/raditia/intrival-go/internal/middleware"
	"github.com/raditia/intrival-go/internal/services"
	"github.com/raditia/intrival-go/pkg/marketdata"
)

// SetupRoutes configures all the HTTP routes for the application.
// It wires the health probes, the valuation dashboard, and the raw
// financials endpoints, and injects dependencies into handlers.
//
// Parameters:
//
//	router: The Gin engine instance to register routes on.
//	market: Provider-backed market data service.
//	valuer: The valuation pipeline consumed by the dashboard endpoint.
//	valuationDefaults: Configured input defaults (ticker, rate, countries).
//	logger: Structured logger for business events.
func SetupRoutes(router *gin.Engine, market marketdata.MarketDataService, valuer services.Valuer, valuationDefaults config.ValuationConfig, logger logging.Logger) {
	// Initialize health handler
	healthHandler := handlers.NewHealthHandler(market)

	// Health check endpoints with telemetry
	healthGroup := router.Group("/")
	healthGroup.Use(middleware.HealthCheckTelemetryMiddleware())
	{
		healthGroup.GET("/health", gin.WrapF(healthHandler.HealthCheck))
		healthGroup.HEAD("/health", gin.WrapF(healthHandler.HealthCheck))
		healthGroup.GET("/health/system", gin.WrapF(healthHandler.SystemCheck))
		healthGroup.GET("/ready", gin.WrapF(healthHandler.ReadinessCheck))
		healthGroup.GET("/live", gin.WrapF(healthHandler.LivenessCheck))
	}

	// Initialize handlers
	valuationHandler := handlers.NewValuationHandler(valuer, valuationDefaults, logger)
	financialsHandler := handlers.NewFinancialsHandler(market)

	// API v1 routes with telemetry
	v1 := router.Group("/api/v1")
	v1.Use(middleware.TelemetryMiddleware())
	{
		// Valuation dashboard routes
		valuation := v1.Group("/valuation")
		{
			// The bare path serves the configured default ticker.
			valuation.GET("", valuationHandler.GetDashboard)
			valuation.GET("/:ticker", valuationHandler.GetDashboard)
		}

		// Raw financial data routes
		financials := v1.Group("/financials")
		{
			financials.GET("/:ticker/quote", financialsHandler.GetQuote)
			financials.GET("/:ticker/history", financialsHandler.GetPriceHistory)
			financials.GET("/:ticker/statements", financialsHandler.GetStatements)
		}
	}
}
