package entity

import "github.com/paulmach/orb"

// GeoPoint is a WGS84 coordinate in degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// GeoPointFromOrb converts an orb point back into a GeoPoint.
func GeoPointFromOrb(p orb.Point) GeoPoint {
	return GeoPoint{Latitude: p.Lat(), Longitude: p.Lon()}
}

// Coverage is the circular approximation of a geofence.
type Coverage struct {
	Center       GeoPoint `json:"center"`
	RadiusMeters float64  `json:"radiusMeters"`
}
