// Package geofence derives circular coverage from polygon vertices and converts
// boundaries to and from KML and GeoJSON. Every function is pure.
package geofence

import (
	"math"

	"attendance/internal/domain/entity"
)

// EarthRadiusMeters is the mean earth radius used for every geofence distance.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance between a and b in meters (haversine).
func Distance(a, b entity.GeoPoint) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	deltaLat := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}
