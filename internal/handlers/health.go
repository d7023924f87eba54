package handlers

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string `json:"status"`
	Storage   string `json:"storage"`
	Timestamp string `json:"timestamp"`
}

// Health handles GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK

	if err := h.health.PingContext(r.Context()); err != nil {
		h.logger.Error("health check failed", "error", err)
		status = "error"
		code = http.StatusServiceUnavailable
	}

	h.writeJSON(w, code, healthResponse{
		Status:    status,
		Storage:   h.backend,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
