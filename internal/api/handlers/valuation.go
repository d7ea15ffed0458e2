package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/raditia/intrival-go/internal/config"
	"github.com/raditia/intrival-go/internal/logging"
	"github.com/raditia/intrival-go/internal/observability"
	"github.com/raditia/intrival-go/internal/services"
	"github.com/raditia/intrival-go/internal/utils"
)

// ValuationHandler serves the intrinsic-value dashboard. Inputs arrive as
// route and query parameters; anything omitted falls back to the configured
// defaults.
type ValuationHandler struct {
	valuation services.Valuer
	defaults  config.ValuationConfig
	logger    logging.Logger
}

func NewValuationHandler(valuation services.Valuer, defaults config.ValuationConfig, logger logging.Logger) *ValuationHandler {
	return &ValuationHandler{
		valuation: valuation,
		defaults:  defaults,
		logger:    logger,
	}
}

// GetDashboard runs the full valuation pipeline for one ticker and returns
// the dashboard payload. Every request recomputes from a fresh provider
// fetch; nothing is reused between submissions.
func (h *ValuationHandler) GetDashboard(c *gin.Context) {
	raw := c.Param("ticker")
	if strings.TrimSpace(raw) == "" {
		raw = h.defaults.DefaultTicker
	}
	ticker, err := utils.NormalizeTicker(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	riskFree := h.defaults.DefaultRiskFreeRate
	if param := c.Query("risk_free"); param != "" {
		riskFree, err = strconv.ParseFloat(param, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "risk_free must be a number"})
			return
		}
	}
	if err := utils.ValidateRiskFreePercent(riskFree); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	country := c.DefaultQuery("country", h.defaultCountry())

	ctx := c.Request.Context()
	observability.SetTags(ctx, map[string]string{
		"ticker":  ticker,
		"country": country,
	})

	dashboard, err := h.valuation.BuildDashboard(ctx, ticker, riskFree, country)
	if err != nil {
		observability.CaptureExceptionWithContext(ctx, err, observability.SpanOpValuation, map[string]interface{}{
			"ticker":    ticker,
			"country":   country,
			"risk_free": riskFree,
		})
		c.JSON(providerErrorStatus(err), gin.H{"error": "Failed to build valuation dashboard: " + err.Error()})
		return
	}

	h.logger.LogBusinessEvent("valuation_dashboard_served", map[string]interface{}{
		"ticker":          ticker,
		"country":         country,
		"risk_free_rate":  riskFree,
		"intrinsic_value": dashboard.Metrics.IntrinsicValue.InexactFloat64(),
		"upside_pct":      dashboard.Metrics.UpsidePct.InexactFloat64(),
	})

	c.JSON(http.StatusOK, dashboard)
}

func (h *ValuationHandler) defaultCountry() string {
	if len(h.defaults.Countries) > 0 {
		return h.defaults.Countries[0]
	}
	return ""
}
