package handler

import (
	"context"
	"net/http"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/model"
)

// HealthHandler reports liveness. Ping is only set when Redis backs the stale guard.
type HealthHandler struct {
	Ping func(ctx context.Context) error
}

func (h *HealthHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if h.Ping != nil {
		if err := h.Ping(r.Context()); err != nil {
			config.GetLogger().Errorw("failed to check redis connectivity", "error", err)
			writeJSONResponse(w, http.StatusServiceUnavailable, model.ErrorResponse("failed to check redis connectivity"))
			return
		}
		status["redis"] = "ok"
	}
	writeJSONResponse(w, http.StatusOK, model.SuccessResponse(status))
}
