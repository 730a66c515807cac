package api

import (
	"net/http"
	"time"
)

const healthVersion = "1.0.0"

var startTime = time.Now()

// HealthCheck reports liveness. The dataset is embedded and loaded at
// startup, so a responding process is a healthy one; optional integrations
// (redis, warehouse) degrade to pass-through and don't gate health.
//
//	GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": healthVersion,
		"uptime":  time.Since(startTime).Round(time.Second).String(),
	})
}
