package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthResponse is the body served at /health
type HealthResponse struct {
	Status        string    `json:"status"`
	Service       string    `json:"service"`
	Version       string    `json:"version"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	Timestamp     time.Time `json:"timestamp"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service string
	version string
	started time.Time
	now     func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service, version string) *HealthHandler {
	return &HealthHandler{
		service: service,
		version: version,
		started: time.Now(),
		now:     time.Now,
	}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	render.JSON(w, r, HealthResponse{
		Status:        "ok",
		Service:       h.service,
		Version:       h.version,
		UptimeSeconds: now.Sub(h.started).Seconds(),
		Timestamp:     now.UTC(),
	})
}
