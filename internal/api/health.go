package api

import (
	"context"
	"net/http"
	"time"

	"infinite-experiment/calllist/internal/common"
	"infinite-experiment/calllist/internal/models/dtos"
)

// HealthCheckHandler handles GET /healthCheck
func (h *Handlers) HealthCheckHandler(upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		services := map[string]string{"database": "ok"}
		if err := h.deps.Read.PingContext(ctx); err != nil {
			services["database"] = "down: " + err.Error()
		}
		if h.deps.Redis != nil {
			services["redis"] = "ok"
			if err := h.deps.Redis.Ping(ctx).Err(); err != nil {
				services["redis"] = "down: " + err.Error()
			}
		}

		resp := dtos.HealthResponse{
			Status:   "ok",
			Services: services,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}
		for _, status := range services {
			if status != "ok" {
				resp.Status = "down"
				common.RespondSuccess(w, initTime, "Degraded", resp, http.StatusServiceUnavailable)
				return
			}
		}
		common.RespondSuccess(w, initTime, "Healthy", resp)
	}
}
