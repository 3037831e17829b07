package handlers

import (
	"net/http"

	"travel-agency/monitoring"
	"travel-agency/utils"

	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports whether the process and its Redis are reachable.
type HealthHandler struct {
	redis redis.Cmdable
}

func NewHealthHandler(client redis.Cmdable) *HealthHandler {
	return &HealthHandler{redis: client}
}

func (h *HealthHandler) Health(e *core.RequestEvent) error {
	if err := utils.RedisHealthCheck(e.Request.Context(), h.redis); err != nil {
		return e.JSON(http.StatusServiceUnavailable, map[string]any{"status": "degraded", "redis": err.Error()})
	}
	return e.JSON(http.StatusOK, map[string]any{"status": "ok", "redis": "ok"})
}

func Metrics(e *core.RequestEvent) error {
	monitoring.Handler().ServeHTTP(e.Response, e.Request)
	return nil
}
