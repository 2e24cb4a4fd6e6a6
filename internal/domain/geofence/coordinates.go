package geofence

import (
	"math"
	"strconv"
	"strings"

	"attendance/internal/domain/entity"
)

// parseCoordinateList parses whitespace separated "lon,lat[,alt]" tuples.
// Malformed tuples are dropped; the remaining points keep their order.
func parseCoordinateList(text string) []entity.GeoPoint {
	fields := strings.Fields(text)
	points := make([]entity.GeoPoint, 0, len(fields))

	for _, field := range fields {
		if p, ok := parseCoordinateTuple(field); ok {
			points = append(points, p)
		}
	}

	return points
}

func parseCoordinateTuple(tuple string) (entity.GeoPoint, bool) {
	parts := strings.Split(tuple, ",")
	if len(parts) < 2 {
		return entity.GeoPoint{}, false
	}

	lng, ok := parseCoordinate(parts[0])
	if !ok {
		return entity.GeoPoint{}, false
	}

	lat, ok := parseCoordinate(parts[1])
	if !ok {
		return entity.GeoPoint{}, false
	}

	return entity.GeoPoint{Latitude: lat, Longitude: lng}, true
}

func parseCoordinate(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}

// formatCoordinateList renders points as "lon,lat" tuples using the shortest
// representation that parses back to the identical float64.
func formatCoordinateList(points []entity.GeoPoint) string {
	var b strings.Builder

	for i, p := range points {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(p.Longitude, 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Latitude, 'f', -1, 64))
	}

	return b.String()
}
