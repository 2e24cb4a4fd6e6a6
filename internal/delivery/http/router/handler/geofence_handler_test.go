package handler

import (
	"net/http"
	"testing"

	"attendance/internal/domain/entity"
	"attendance/internal/domain/geofence"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const squareKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2"><Placemark><Polygon><outerBoundaryIs><LinearRing>
<coordinates>121.0,25.0,0 121.001,25.0,0 121.001,25.001,0 121.0,25.001,0 121.0,25.0,0</coordinates>
</LinearRing></outerBoundaryIs></Polygon></Placemark></kml>`

func newGeofenceEcho() *echo.Echo {
	h := NewGeofenceHandler()

	e := newTestEcho()
	e.POST("/coverage", h.DeriveCoverage)
	e.POST("/markup", h.BuildMarkup)
	e.POST("/parse", h.ParseBoundary)

	return e
}

func TestGeofenceHandler_DeriveCoverage(t *testing.T) {
	e := newGeofenceEcho()

	rec, body := serve(t, e, jsonRequest(http.MethodPost, "/coverage",
		`{"vertices":[{"latitude":0,"longitude":0},{"latitude":0,"longitude":0.001},{"latitude":0.001,"longitude":0.001},{"latitude":0.001,"longitude":0}]}`))

	require.Equal(t, http.StatusOK, rec.Code)
	coverage := decodeData[entity.Coverage](t, body)
	assert.InDelta(t, 0.0005, coverage.Center.Latitude, 1e-9)
	assert.InDelta(t, 0.0005, coverage.Center.Longitude, 1e-9)
	assert.Equal(t, 79.0, coverage.RadiusMeters)
}

func TestGeofenceHandler_DeriveCoverage_FromVertexText(t *testing.T) {
	e := newGeofenceEcho()

	rec, body := serve(t, e, jsonRequest(http.MethodPost, "/coverage", `{"vertexText":"121,25"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	coverage := decodeData[entity.Coverage](t, body)
	assert.Equal(t, entity.GeoPoint{Latitude: 25, Longitude: 121}, coverage.Center)
	assert.Zero(t, coverage.RadiusMeters)
}

func TestGeofenceHandler_DeriveCoverage_Invalid(t *testing.T) {
	e := newGeofenceEcho()

	t.Run("no vertices", func(t *testing.T) {
		rec, body := serve(t, e, jsonRequest(http.MethodPost, "/coverage", `{"vertexText":"nothing here"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_VERTEX_INPUT", body.Error.Code)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		rec, body := serve(t, e, jsonRequest(http.MethodPost, "/coverage", `{"vertices":[{"latitude":91,"longitude":0}]}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	})
}

func TestGeofenceHandler_BuildMarkup(t *testing.T) {
	e := newGeofenceEcho()

	rec, _ := serve(t, e, jsonRequest(http.MethodPost, "/markup",
		`{"name":"HQ","vertexText":"121,25\n121.001,25\n121.001,25.001"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, geofence.KMLContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="HQ.kml"`, rec.Header().Get(echo.HeaderContentDisposition))

	points, err := geofence.ParseBoundaryMarkup(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, points, 3)
}

func TestGeofenceHandler_BuildMarkup_Rejections(t *testing.T) {
	e := newGeofenceEcho()

	rec, body := serve(t, e, jsonRequest(http.MethodPost, "/markup", `{"name":" ","vertexText":"1,1 2,2 3,3"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "AREA_NAME_REQUIRED", body.Error.Code)

	rec, body = serve(t, e, jsonRequest(http.MethodPost, "/markup", `{"name":"HQ","vertexText":"1,1 2,2"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_VERTEX_INPUT", body.Error.Code)
}

func TestGeofenceHandler_ParseBoundary(t *testing.T) {
	e := newGeofenceEcho()

	rec, body := serve(t, e, uploadRequest(t, "/parse", "hq.kml", []byte(squareKML), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	preview := decodeData[BoundaryPreview](t, body)
	assert.Len(t, preview.Vertices, 5)
	assert.True(t, preview.IsPolygon)
	assert.Positive(t, preview.Coverage.RadiusMeters)
	assert.Contains(t, preview.VertexText, "121,25")
}

func TestGeofenceHandler_ParseBoundary_Failures(t *testing.T) {
	e := newGeofenceEcho()

	rec, body := serve(t, e, uploadRequest(t, "/parse", "", nil, map[string]string{"name": "x"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "HTTP_ERROR", body.Error.Code)

	rec, body = serve(t, e, uploadRequest(t, "/parse", "empty.kml", []byte("<kml></kml>"), nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "MARKUP_PARSE_FAILURE", body.Error.Code)
}
