package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"attendance/config"
	deliverycontext "attendance/internal/delivery/context"
	deliverymiddleware "attendance/internal/delivery/http/middleware"
	"attendance/internal/delivery/http/router"
	"attendance/internal/delivery/http/router/handler"
	"attendance/internal/delivery/middleware"
	"attendance/internal/delivery/websocket"
	"attendance/internal/domain/entity"
	domainerrors "attendance/internal/domain/errors"
	"attendance/internal/infra/qrcode"
	"attendance/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idleRotation struct{}

func (idleRotation) Open(context.Context) {}
func (idleRotation) Close()               {}
func (idleRotation) Start(context.Context) (entity.RotationSnapshot, error) {
	return entity.RotationSnapshot{State: entity.RotationStateIdle}, nil
}
func (idleRotation) Stop() entity.RotationSnapshot {
	return entity.RotationSnapshot{State: entity.RotationStateIdle}
}
func (idleRotation) Snapshot() entity.RotationSnapshot {
	return entity.RotationSnapshot{State: entity.RotationStateIdle}
}
func (idleRotation) CurrentToken() (*entity.DisplayToken, error) {
	return nil, domainerrors.ErrTokenUnavailable
}

func newTestServer(t *testing.T, bodyLimit string) *echo.Echo {
	t.Helper()

	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = bodyLimit
	cfg.ApplyDefaults()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var rotationUC usecase.RotationUsecase = idleRotation{}

	return NewEcho(HTTPParams{
		Config: cfg,
		Logger: logger,
		RouterParams: router.RouterParams{
			HealthHandler: handler.NewHealthHandler(rotationUC),
			DisplayHandler: handler.NewDisplayHandler(handler.DisplayHandlerParams{
				RotationUC: rotationUC,
				QRCode:     qrcode.NewQRCodeService(cfg.QR.Size, cfg.QR.ErrorCorrectionLevel),
				Logger:     logger,
			}),
			GeofenceHandler:   handler.NewGeofenceHandler(),
			OfficeAreaHandler: handler.NewOfficeAreaHandler(nil, logger),
			StreamHandler: websocket.NewHandler(websocket.HandlerParams{
				Hub:        websocket.NewHub(logger),
				RotationUC: rotationUC,
				Logger:     logger,
			}),
		},
		ErrorMiddleware:     deliverymiddleware.NewErrorMiddleware(logger),
		RequestIDMiddleware: middleware.NewRequestIDMiddleware(logger),
		LoggerMiddleware:    middleware.NewLoggerMiddleware(logger, cfg),
	})
}

func TestServer_HealthCarriesRequestID(t *testing.T) {
	e := newTestServer(t, "2MB")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Contains(t, rec.Body.String(), `"displayState":"idle"`)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "req-42")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestServer_ErrorsUseResponseEnvelope(t *testing.T) {
	e := newTestServer(t, "2MB")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/display/qr.png", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"TOKEN_UNAVAILABLE"`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"HTTP_ERROR"`)
}

func TestServer_BodyLimit(t *testing.T) {
	e := newTestServer(t, "1K")

	body := `{"vertexText":"` + strings.Repeat("121,25 ", 400) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/geofence/coverage", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
