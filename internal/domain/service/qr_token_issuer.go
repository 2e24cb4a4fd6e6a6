package service

import (
	"context"

	"attendance/internal/domain/entity"
)

// QRTokenIssuer requests fresh display tokens from the attendance backend
type QRTokenIssuer interface {
	// GenerateToken issues a new token. Only the token value and the backend
	// expiry are populated; the caller stamps the client-side lifetime.
	GenerateToken(ctx context.Context) (*entity.DisplayToken, error)
}
