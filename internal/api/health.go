package api

import (
	"net/http"
	"time"

	"github.com/Bhavishyakolloori/todolist-v1/internal/api/respond"
)

// HealthReporter is the cached service health the handler reports.
type HealthReporter interface {
	IsHealthy() bool
	Components() map[string]bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	health HealthReporter
}

func NewHealthHandler(h HealthReporter) *HealthHandler { return &HealthHandler{health: h} }

// CheckHealth handles GET /api/health
// Always returns 200; body reports healthy/unhealthy. 500 indicates handler failure only.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if h.health.IsHealthy() {
		status = "healthy"
	}
	response := map[string]interface{}{
		"status":     status,
		"components": h.health.Components(),
		"timestamp":  time.Now().Format(time.RFC3339),
	}
	respond.WriteJSON(w, r, http.StatusOK, response)
}
