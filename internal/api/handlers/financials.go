package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raditia/intrival-go/internal/observability"
	"github.com/raditia/intrival-go/internal/utils"
	"github.com/raditia/intrival-go/pkg/marketdata"
)

// FinancialsHandler serves the raw provider data behind the dashboard:
// quotes, price history, and the three annual statements.
type FinancialsHandler struct {
	market marketdata.MarketDataService
}

func NewFinancialsHandler(market marketdata.MarketDataService) *FinancialsHandler {
	return &FinancialsHandler{market: market}
}

// GetQuote returns the latest quote for a ticker.
func (h *FinancialsHandler) GetQuote(c *gin.Context) {
	ticker, err := utils.NormalizeTicker(c.Param("ticker"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.market.FetchQuote(c.Request.Context(), ticker)
	if err != nil {
		h.fetchFailed(c, ticker, "quote", err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// GetPriceHistory returns the five-year daily close series for a ticker.
func (h *FinancialsHandler) GetPriceHistory(c *gin.Context) {
	ticker, err := utils.NormalizeTicker(c.Param("ticker"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	history, err := h.market.FetchPriceHistory(c.Request.Context(), ticker)
	if err != nil {
		h.fetchFailed(c, ticker, "price history", err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetStatements returns the annual cash-flow, income, and balance-sheet
// tables for a ticker.
func (h *FinancialsHandler) GetStatements(c *gin.Context) {
	ticker, err := utils.NormalizeTicker(c.Param("ticker"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	statements, err := h.market.FetchStatements(c.Request.Context(), ticker)
	if err != nil {
		h.fetchFailed(c, ticker, "financial statements", err)
		return
	}

	c.JSON(http.StatusOK, statements)
}

func (h *FinancialsHandler) fetchFailed(c *gin.Context, ticker, dataset string, err error) {
	ctx := c.Request.Context()
	observability.CaptureExceptionWithContext(ctx, err, observability.SpanOpMarketData, map[string]interface{}{
		"ticker":  ticker,
		"dataset": dataset,
	})
	c.JSON(providerErrorStatus(err), gin.H{"error": "Failed to fetch " + dataset + ": " + err.Error()})
}

// providerErrorStatus maps a fetch failure to a response status. Tickers the
// provider does not know stay 404; everything else is an upstream failure.
func providerErrorStatus(err error) int {
	var providerErr *marketdata.ProviderError
	if errors.As(err, &providerErr) && providerErr.StatusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
