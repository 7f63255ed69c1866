package handlers

import (
	"net/http"
	"time"

	"github.com/familygrove/familygrove/pkg/httputil"
)

var startedAt = time.Now()

// HealthHandler handles GET /api/health.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, httputil.Fields{
		"message":   "Service is healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(startedAt).Round(time.Second).String(),
	})
}
