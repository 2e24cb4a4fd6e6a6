package geofence

import (
	"math"

	"attendance/internal/domain/entity"
)

// MinPolygonVertices is the smallest vertex count callers accept as a polygon
const MinPolygonVertices = 3

// DeriveCoverage approximates a set of vertices with a circle. The center is the
// plain arithmetic mean of latitudes and longitudes (not area weighted) and the
// radius is the largest center-to-vertex distance rounded to whole meters.
// It reports false when points is empty.
func DeriveCoverage(points []entity.GeoPoint) (entity.Coverage, bool) {
	if len(points) == 0 {
		return entity.Coverage{}, false
	}

	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Latitude
		sumLng += p.Longitude
	}

	n := float64(len(points))
	center := entity.GeoPoint{Latitude: sumLat / n, Longitude: sumLng / n}

	var maxDist float64
	for _, p := range points {
		if d := Distance(center, p); d > maxDist {
			maxDist = d
		}
	}

	return entity.Coverage{Center: center, RadiusMeters: math.Round(maxDist)}, true
}

// IsPolygon reports whether enough vertices survived parsing to form a polygon
func IsPolygon(points []entity.GeoPoint) bool {
	return len(points) >= MinPolygonVertices
}
