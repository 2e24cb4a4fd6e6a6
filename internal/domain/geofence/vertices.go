package geofence

import (
	"strconv"

	"attendance/internal/domain/entity"
	domainerrors "attendance/internal/domain/errors"
)

// ParseVertexText parses the editable vertex text ("lon,lat lon,lat ...").
func ParseVertexText(text string) []entity.GeoPoint {
	return parseCoordinateList(text)
}

// FormatVertexText renders points as editable vertex text.
func FormatVertexText(points []entity.GeoPoint) string {
	return formatCoordinateList(points)
}

// ParsePolygonVertices parses vertex text and requires a usable polygon.
func ParsePolygonVertices(text string) ([]entity.GeoPoint, error) {
	points := ParseVertexText(text)
	if !IsPolygon(points) {
		return nil, domainerrors.ErrInvalidVertexInput.WithDetails(
			"found " + strconv.Itoa(len(points)) + " valid vertices",
		)
	}

	return points, nil
}
