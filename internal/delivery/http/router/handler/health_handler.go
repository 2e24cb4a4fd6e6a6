package handler

import (
	"net/http"

	"attendance/internal/delivery/http/response"
	"attendance/internal/usecase"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness along with the display session state
type HealthHandler struct {
	rotationUC usecase.RotationUsecase
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(rotationUC usecase.RotationUsecase) *HealthHandler {
	return &HealthHandler{rotationUC: rotationUC}
}

// HealthCheck is a public endpoint (no authentication required)
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	snapshot := h.rotationUC.Snapshot()

	return response.Success(c, http.StatusOK, map[string]any{
		"status":       "ok",
		"displayState": snapshot.State,
	}, "")
}
