package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health reports aggregated dependency health.
// GET /api/v1/health
func (h *Handler) Health(c echo.Context) error {
	report, healthy := h.svc.Health(c.Request().Context())

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  report,
		"version":   Version,
	})
}
