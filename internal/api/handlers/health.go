package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/raditia/intrival-go/pkg/marketdata"
)

var startTime = time.Now()

type HealthHandler struct {
	market marketdata.MarketDataService
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
}

// SystemHealthResponse reports point-in-time process and host usage.
type SystemHealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	MemoryUsedMB  uint64    `json:"memory_used_mb"`
	MemoryTotalMB uint64    `json:"memory_total_mb"`
	Goroutines    int       `json:"goroutines"`
	Uptime        string    `json:"uptime"`
}

func NewHealthHandler(market marketdata.MarketDataService) *HealthHandler {
	return &HealthHandler{
		market: market,
	}
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	services := make(map[string]string)

	// Check the market-data provider
	if h.market != nil {
		if h.market.IsHealthy(r.Context()) {
			services["provider"] = "healthy"
		} else {
			services["provider"] = "unhealthy: " + h.market.BaseURL() + " unreachable"
		}
	} else {
		services["provider"] = "unhealthy: not configured"
	}

	// Determine overall status
	overallStatus := "healthy"
	for _, status := range services {
		if status != "healthy" {
			overallStatus = "unhealthy"
			break
		}
	}

	response := HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Services:  services,
		Version:   os.Getenv("APP_VERSION"),
		Uptime:    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if overallStatus == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// SystemCheck samples CPU and memory usage at request time. Nothing runs in
// the background; each call measures fresh. The CPU sample blocks for its
// measurement interval.
func (h *HealthHandler) SystemCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := SystemHealthResponse{
		Status:     "ok",
		Timestamp:  time.Now(),
		Goroutines: runtime.NumGoroutine(),
		Uptime:     time.Since(startTime).String(),
	}

	if cpuPercent, err := cpu.PercentWithContext(ctx, time.Second, false); err == nil && len(cpuPercent) > 0 {
		response.CPUPercent = cpuPercent[0]
	}

	if memInfo, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		response.MemoryPercent = memInfo.UsedPercent
		response.MemoryUsedMB = memInfo.Used / 1024 / 1024
		response.MemoryTotalMB = memInfo.Total / 1024 / 1024
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// Readiness check for Kubernetes-style deployments
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	services := make(map[string]string)

	// The provider must answer before the service can take traffic
	ready := true
	if h.market != nil && h.market.IsHealthy(r.Context()) {
		services["provider"] = "ready"
	} else {
		services["provider"] = "not ready"
		ready = false
	}

	w.Header().Set("Content-Type", "application/json")
	if ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"ready":    ready,
		"services": services,
	}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// Liveness check for container restarts
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	// Simple liveness check - just ensure the app is responsive
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":    "alive",
		"timestamp": time.Now().Format(time.RFC3339),
	}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
