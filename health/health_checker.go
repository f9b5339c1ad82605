// Package health provides health checking functionality for the MediCure API.
package health

import (
	"fmt"
	"math"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/medicure/medicure-api/interfaces"
)

func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore interfaces.DataStore
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(dataStore interfaces.DataStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		dataStore: dataStore,
	}
}

// HealthCheck reports whether the service can answer requests. Predictions
// need all three classifiers, so a missing model makes the service
// unhealthy. An empty remedies dataset only degrades it: predictions and
// chat still work while remedy searches return 503.
// Used by the /api/health HTTP endpoint.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	models := h.dataStore.GetModels()
	records := h.dataStore.GetRemedies()
	lastLoaded := h.dataStore.GetLastLoaded()

	var uptime time.Duration
	if start := h.dataStore.GetServerStartTime(); !start.IsZero() {
		uptime = time.Since(start)
	}

	switch {
	case !models.Complete():
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case len(records) == 0:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	data = map[string]any{
		"models_loaded":    models.Complete(),
		"available_models": models.AvailableKinds(),
		"remedy_count":     len(records),
		"last_loaded":      lastLoaded.Format(time.RFC3339),
		"uptime_seconds":   math.Round(uptime.Seconds()*10) / 10,
		"uptime_human":     formatUptimeHuman(uptime),
		"system": map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       int(memStats.Alloc / 1024 / 1024),
				"total_alloc_mb": int(memStats.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(memStats.Sys / 1024 / 1024),
				"num_gc":         memStats.NumGC,
			},
		},
	}

	return status, data, httpStatus
}
