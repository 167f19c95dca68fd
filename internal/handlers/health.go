package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"nudgepay/internal/logger"
)

const healthTimeout = 3 * time.Second

// Healthz reports dashboard liveness and whether the API answers.
// The dashboard itself is up whenever this runs, so the status is always 200.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	apiStatus := "ok"
	if err := h.api.Health(ctx); err != nil {
		apiStatus = "unreachable"
		logger.WithTrace(r.Context(), h.log).Warn("api health check failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "api": apiStatus})
}
