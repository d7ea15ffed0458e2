package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewHealthHandler(t *testing.T) {
	mockMarket := new(MockMarketDataService)

	handler := NewHealthHandler(mockMarket)

	assert.NotNil(t, handler)
	assert.Equal(t, mockMarket, handler.market)
}

func TestHealthHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		healthy        bool
		expectedStatus int
	}{
		{
			name:           "provider healthy",
			healthy:        true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "provider unreachable",
			healthy:        false,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockMarket := new(MockMarketDataService)
			mockMarket.On("IsHealthy", mock.Anything).Return(tt.healthy)
			if !tt.healthy {
				mockMarket.On("BaseURL").Return("https://query1.finance.yahoo.com")
			}

			handler := NewHealthHandler(mockMarket)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/health", nil)

			handler.HealthCheck(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)
			assert.Contains(t, response, "status")
			assert.Contains(t, response, "services")
			assert.Contains(t, response, "timestamp")
			assert.Contains(t, response, "uptime")

			mockMarket.AssertExpectations(t)
		})
	}
}

func TestHealthHandler_HealthCheck_NotConfigured(t *testing.T) {
	handler := NewHealthHandler(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)

	handler.HealthCheck(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "unhealthy", response["status"])
}

func TestHealthHandler_SystemCheck(t *testing.T) {
	mockMarket := new(MockMarketDataService)
	handler := NewHealthHandler(mockMarket)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health/system", nil)

	handler.SystemCheck(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
	assert.Contains(t, response, "cpu_percent")
	assert.Contains(t, response, "memory_percent")
	assert.Contains(t, response, "uptime")
	assert.Greater(t, response["goroutines"], float64(0))
}

func TestHealthHandler_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name           string
		healthy        bool
		expectedStatus int
		expectedReady  bool
	}{
		{
			name:           "provider ready",
			healthy:        true,
			expectedStatus: http.StatusOK,
			expectedReady:  true,
		},
		{
			name:           "provider not ready",
			healthy:        false,
			expectedStatus: http.StatusServiceUnavailable,
			expectedReady:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockMarket := new(MockMarketDataService)
			mockMarket.On("IsHealthy", mock.Anything).Return(tt.healthy)

			handler := NewHealthHandler(mockMarket)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/ready", nil)

			handler.ReadinessCheck(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedReady, response["ready"])
			assert.Contains(t, response, "services")

			mockMarket.AssertExpectations(t)
		})
	}
}

func TestHealthHandler_LivenessCheck(t *testing.T) {
	handler := NewHealthHandler(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/live", nil)

	handler.LivenessCheck(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "alive", response["status"])
	assert.Contains(t, response, "timestamp")
}
