package api

import (
	"net/http"
	"time"
)

// HealthHandler reports basic liveness information for the demo server.
type HealthHandler struct {
	startTime time.Time
	version   string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{startTime: time.Now(), version: version}
}

// HealthResponse is the JSON body Health writes.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// @Summary Health check
// @Description Reports server uptime and version
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /v1/health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Uptime:  time.Since(h.startTime).String(),
		Version: h.version,
	})
}
