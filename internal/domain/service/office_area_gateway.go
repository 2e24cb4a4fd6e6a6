package service

import (
	"context"

	"attendance/internal/domain/entity"
)

// CreateOfficeAreaRequest is the backend payload for creating a geofence
type CreateOfficeAreaRequest struct {
	Name         string   `json:"name"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	RadiusMeters *float64 `json:"radiusMeters,omitempty"`
}

// UpdateOfficeAreaRequest is the backend payload for a partial geofence update
type UpdateOfficeAreaRequest struct {
	Name         *string                  `json:"name,omitempty"`
	Latitude     *float64                 `json:"latitude,omitempty"`
	Longitude    *float64                 `json:"longitude,omitempty"`
	RadiusMeters *float64                 `json:"radiusMeters,omitempty"`
	Status       *entity.OfficeAreaStatus `json:"status,omitempty"`
}

// OfficeAreaGateway is the backend surface for office area geofences
type OfficeAreaGateway interface {
	ListOfficeAreas(ctx context.Context) ([]*entity.OfficeArea, error)
	GetOfficeArea(ctx context.Context, id int64) (*entity.OfficeArea, error)
	CreateOfficeArea(ctx context.Context, req *CreateOfficeAreaRequest) (*entity.OfficeArea, error)
	UpdateOfficeArea(ctx context.Context, id int64, req *UpdateOfficeAreaRequest) (*entity.OfficeArea, error)
	DeactivateOfficeArea(ctx context.Context, id int64) error

	// UploadPolygon attaches a boundary markup document to an existing area
	UploadPolygon(ctx context.Context, id int64, filename string, document []byte) (*entity.OfficeArea, error)

	// FetchPolygon downloads a previously attached boundary document
	FetchPolygon(ctx context.Context, fileURL string) ([]byte, error)
}
