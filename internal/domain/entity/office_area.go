package entity

// OfficeAreaStatus is the lifecycle status of an office area
type OfficeAreaStatus string

const (
	OfficeAreaStatusActive   OfficeAreaStatus = "ACTIVE"
	OfficeAreaStatusInactive OfficeAreaStatus = "INACTIVE"
)

// OfficeArea is a geofence as stored by the attendance backend. When a polygon
// document is attached, Latitude/Longitude/RadiusMeters are derived from it.
type OfficeArea struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Latitude        float64          `json:"latitude"`
	Longitude       float64          `json:"longitude"`
	RadiusMeters    *float64         `json:"radiusMeters"`
	PolygonFilePath string           `json:"polygonFilePath,omitempty"`
	PolygonFileURL  string           `json:"polygonFileUrl,omitempty"`
	Status          OfficeAreaStatus `json:"status"`
	CreatedAt       Timestamp        `json:"createdAt"`
}

// Center returns the geofence center
func (a *OfficeArea) Center() GeoPoint {
	return GeoPoint{Latitude: a.Latitude, Longitude: a.Longitude}
}

// HasBoundary reports whether a polygon document is attached
func (a *OfficeArea) HasBoundary() bool {
	return a.PolygonFileURL != ""
}
