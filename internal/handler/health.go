package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripplanner/internal/health"
)

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) Health(c echo.Context) error {
	report := h.checker.CheckHealth(c.Request().Context())
	status := http.StatusOK
	if report.Status != health.StatusUp {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, report)
}
