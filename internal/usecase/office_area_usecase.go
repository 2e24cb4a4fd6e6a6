package usecase

import (
	"context"

	"attendance/internal/domain/entity"
)

// ImportBoundaryInput represents an uploaded boundary document
type ImportBoundaryInput struct {
	// Name of the new area; defaults to the file name without extension
	Name     string
	Filename string
	Document []byte
}

// ImportBoundaryResult describes the area created from a boundary document
type ImportBoundaryResult struct {
	Area             *entity.OfficeArea `json:"area"`
	Coverage         entity.Coverage    `json:"coverage"`
	BoundaryAttached bool               `json:"boundaryAttached"`

	// Warning is set when the document could not be parsed and a plain circle was created
	Warning string `json:"warning,omitempty"`
}

// BoundaryView is the editable form of an area's polygon
type BoundaryView struct {
	Area       *entity.OfficeArea `json:"area"`
	Vertices   []entity.GeoPoint  `json:"vertices"`
	VertexText string             `json:"vertexText"`
	Coverage   entity.Coverage    `json:"coverage"`
}

// UpdateBoundaryInput represents an edited polygon
type UpdateBoundaryInput struct {
	// Name replaces the area name when not empty
	Name       string
	VertexText string
}

// CreateCircleInput represents a plain circular geofence
type CreateCircleInput struct {
	Name         string
	Center       entity.GeoPoint
	RadiusMeters *float64
}

// UpdateAreaInput represents a partial area update
type UpdateAreaInput struct {
	Name         *string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters *float64
	Status       *entity.OfficeAreaStatus
}

// OfficeAreaUsecase defines the geofence administration workflows
type OfficeAreaUsecase interface {
	// ImportBoundary creates an area from a KML or GeoJSON document and attaches the polygon
	ImportBoundary(ctx context.Context, input *ImportBoundaryInput) (*ImportBoundaryResult, error)

	// LoadBoundary downloads an area's polygon as editable vertices
	LoadBoundary(ctx context.Context, id int64) (*BoundaryView, error)

	// UpdateBoundary re-derives center and radius from edited vertices and re-uploads the polygon
	UpdateBoundary(ctx context.Context, id int64, input *UpdateBoundaryInput) (*BoundaryView, error)

	CreateCircle(ctx context.Context, input *CreateCircleInput) (*entity.OfficeArea, error)
	UpdateArea(ctx context.Context, id int64, input *UpdateAreaInput) (*entity.OfficeArea, error)
	ListAreas(ctx context.Context) ([]*entity.OfficeArea, error)
	DeactivateArea(ctx context.Context, id int64) error
}
