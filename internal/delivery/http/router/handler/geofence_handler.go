package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"attendance/internal/delivery/http/response"
	"attendance/internal/domain/entity"
	domainerrors "attendance/internal/domain/errors"
	"attendance/internal/domain/geofence"
	"attendance/internal/errors"

	"github.com/labstack/echo/v4"
)

// GeofenceHandler exposes the stateless geometry helpers
type GeofenceHandler struct{}

// NewGeofenceHandler is the constructor for GeofenceHandler
func NewGeofenceHandler() *GeofenceHandler {
	return &GeofenceHandler{}
}

// VerticesRequest carries polygon vertices either as a list or as editable text
type VerticesRequest struct {
	Name       string            `json:"name"`
	Vertices   []entity.GeoPoint `json:"vertices" validate:"omitempty,dive"`
	VertexText string            `json:"vertexText"`
}

func (r *VerticesRequest) points() []entity.GeoPoint {
	if len(r.Vertices) > 0 {
		return r.Vertices
	}

	return geofence.ParseVertexText(r.VertexText)
}

// BoundaryPreview is the parsed content of a boundary document
type BoundaryPreview struct {
	Vertices   []entity.GeoPoint `json:"vertices"`
	VertexText string            `json:"vertexText"`
	Coverage   entity.Coverage   `json:"coverage"`
	IsPolygon  bool              `json:"isPolygon"`
}

// DeriveCoverage returns the circle approximating the posted vertices
func (h *GeofenceHandler) DeriveCoverage(c echo.Context) error {
	var req VerticesRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid vertices input")
	}

	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	coverage, ok := geofence.DeriveCoverage(req.points())
	if !ok {
		return domainerrors.ErrInvalidVertexInput.WithDetails("no valid vertices")
	}

	return response.Success(c, http.StatusOK, coverage, "")
}

// BuildMarkup returns a KML document for the posted polygon
func (h *GeofenceHandler) BuildMarkup(c echo.Context) error {
	var req VerticesRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid vertices input")
	}

	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domainerrors.ErrAreaNameRequired
	}

	points := req.points()
	if !geofence.IsPolygon(points) {
		return domainerrors.ErrInvalidVertexInput
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+sanitizeFilename(name)+`.kml"`)

	return c.Blob(http.StatusOK, geofence.KMLContentType, geofence.BuildBoundaryMarkup(name, points))
}

// ParseBoundary previews the vertices and coverage of an uploaded KML or GeoJSON file
func (h *GeofenceHandler) ParseBoundary(c echo.Context) error {
	filename, document, err := readUpload(c)
	if err != nil {
		return err
	}

	points, err := geofence.ParseBoundaryFile(filename, document)
	if err != nil {
		return err
	}

	preview := BoundaryPreview{
		Vertices:   points,
		VertexText: geofence.FormatVertexText(points),
		IsPolygon:  geofence.IsPolygon(points),
	}
	if coverage, ok := geofence.DeriveCoverage(points); ok {
		preview.Coverage = coverage
	}

	return response.Success(c, http.StatusOK, preview, "")
}

// readUpload reads the multipart field "file"
func readUpload(c echo.Context) (string, []byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "multipart field \"file\" is required")
	}

	document, err := readFileHeader(fileHeader)
	if err != nil {
		return "", nil, err
	}

	return fileHeader.Filename, document, nil
}

func readFileHeader(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open uploaded file")
	}
	defer file.Close()

	document, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, "read uploaded file")
	}

	return document, nil
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '/', '\r', '\n':
			return '_'
		}

		return r
	}, name)
}
