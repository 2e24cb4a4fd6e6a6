package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"attendance/internal/delivery/http/response"
	"attendance/internal/domain/entity"
	"attendance/internal/errors"
	"attendance/internal/usecase"

	"github.com/labstack/echo/v4"
)

// OfficeAreaHandler exposes the geofence administration workflows
type OfficeAreaHandler struct {
	uc     usecase.OfficeAreaUsecase
	logger *slog.Logger
}

// NewOfficeAreaHandler is the constructor for OfficeAreaHandler, injected by Fx.
func NewOfficeAreaHandler(uc usecase.OfficeAreaUsecase, logger *slog.Logger) *OfficeAreaHandler {
	return &OfficeAreaHandler{
		uc:     uc,
		logger: logger,
	}
}

// CreateCircleRequest is the body of a plain circular geofence
type CreateCircleRequest struct {
	Name         string   `json:"name" validate:"required"`
	Latitude     float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude    float64  `json:"longitude" validate:"min=-180,max=180"`
	RadiusMeters *float64 `json:"radiusMeters" validate:"omitempty,gte=0"`
}

// UpdateAreaRequest is the body of a partial area update
type UpdateAreaRequest struct {
	Name         *string                  `json:"name"`
	Latitude     *float64                 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64                 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	RadiusMeters *float64                 `json:"radiusMeters" validate:"omitempty,gte=0"`
	Status       *entity.OfficeAreaStatus `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// UpdateBoundaryRequest is the body of an edited polygon
type UpdateBoundaryRequest struct {
	Name       string `json:"name"`
	VertexText string `json:"vertexText" validate:"required"`
}

// ListAreas returns every office area known to the backend
func (h *OfficeAreaHandler) ListAreas(c echo.Context) error {
	areas, err := h.uc.ListAreas(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, areas, "")
}

// CreateCircle creates an office area without a polygon
func (h *OfficeAreaHandler) CreateCircle(c echo.Context) error {
	var req CreateCircleRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid office area input")
	}

	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	area, err := h.uc.CreateCircle(c.Request().Context(), &usecase.CreateCircleInput{
		Name:         req.Name,
		Center:       entity.GeoPoint{Latitude: req.Latitude, Longitude: req.Longitude},
		RadiusMeters: req.RadiusMeters,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, area, "Office area created")
}

// UpdateArea applies a partial update to an office area
func (h *OfficeAreaHandler) UpdateArea(c echo.Context) error {
	id, err := parseAreaID(c)
	if err != nil {
		return err
	}

	var req UpdateAreaRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid office area input")
	}

	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	area, err := h.uc.UpdateArea(c.Request().Context(), id, &usecase.UpdateAreaInput{
		Name:         req.Name,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		Status:       req.Status,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, area, "Office area updated")
}

// DeactivateArea marks an office area inactive
func (h *OfficeAreaHandler) DeactivateArea(c echo.Context) error {
	id, err := parseAreaID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeactivateArea(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ImportBoundary creates an office area from an uploaded KML or GeoJSON file.
// The optional form field "name" overrides the file name.
func (h *OfficeAreaHandler) ImportBoundary(c echo.Context) error {
	filename, document, err := readUpload(c)
	if err != nil {
		return err
	}

	result, err := h.uc.ImportBoundary(c.Request().Context(), &usecase.ImportBoundaryInput{
		Name:     c.FormValue("name"),
		Filename: filename,
		Document: document,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	message := "Office area imported"
	if result.Warning != "" {
		message = "Office area created without a polygon: " + result.Warning
	}

	return response.Success(c, http.StatusCreated, result, message)
}

// GetBoundary returns the polygon of an office area as editable vertices
func (h *OfficeAreaHandler) GetBoundary(c echo.Context) error {
	id, err := parseAreaID(c)
	if err != nil {
		return err
	}

	view, err := h.uc.LoadBoundary(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "")
}

// UpdateBoundary replaces the polygon of an office area
func (h *OfficeAreaHandler) UpdateBoundary(c echo.Context) error {
	id, err := parseAreaID(c)
	if err != nil {
		return err
	}

	var req UpdateBoundaryRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid boundary input")
	}

	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	view, err := h.uc.UpdateBoundary(c.Request().Context(), id, &usecase.UpdateBoundaryInput{
		Name:       req.Name,
		VertexText: req.VertexText,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Boundary updated")
}

func parseAreaID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid office area id")
	}

	return id, nil
}
