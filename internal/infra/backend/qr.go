package backend

import (
	"context"
	"net/http"

	"attendance/internal/domain/entity"
	domainerrors "attendance/internal/domain/errors"
)

const generateQRPath = "/api/qr/generate"

type qrTokenResponse struct {
	ID        int64            `json:"id"`
	Token     string           `json:"token"`
	ExpiresAt entity.Timestamp `json:"expiresAt"`
	Used      bool             `json:"used"`
	CreatedAt entity.Timestamp `json:"createdAt"`
}

// GenerateToken asks the backend for a new display token
func (c *Client) GenerateToken(ctx context.Context) (*entity.DisplayToken, error) {
	var resp qrTokenResponse
	if err := c.do(ctx, &request{
		method: http.MethodPost,
		path:   generateQRPath,
	}, &resp); err != nil {
		return nil, err
	}

	if resp.Token == "" {
		return nil, domainerrors.ErrBackendFailure.WithDetails("POST " + generateQRPath + ": response carried no token")
	}

	return &entity.DisplayToken{
		Value:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
	}, nil
}
