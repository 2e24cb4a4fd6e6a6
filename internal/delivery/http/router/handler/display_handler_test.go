package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"attendance/internal/domain/entity"
	domainerrors "attendance/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newDisplayFixture() (*echo.Echo, *mockRotationUsecase, *mockQRCodeService) {
	rotationUC := new(mockRotationUsecase)
	qrCode := new(mockQRCodeService)
	h := NewDisplayHandler(DisplayHandlerParams{
		RotationUC: rotationUC,
		QRCode:     qrCode,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	e := newTestEcho()
	e.GET("/state", h.GetState)
	e.POST("/start", h.Start)
	e.POST("/stop", h.Stop)
	e.GET("/qr.png", h.GetQRCodePNG)
	e.GET("/qr.txt", h.GetQRCodeText)

	return e, rotationUC, qrCode
}

func runningSnapshot() entity.RotationSnapshot {
	return entity.RotationSnapshot{
		State:            entity.RotationStateRunning,
		Active:           true,
		SecondsRemaining: 30,
		ValidForSeconds:  30,
		CutoffHour:       7,
		Token:            &entity.DisplayToken{Value: "tok-1", IssuedAt: time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)},
	}
}

func TestDisplayHandler_GetState(t *testing.T) {
	e, rotationUC, _ := newDisplayFixture()
	rotationUC.On("Snapshot").Return(runningSnapshot())

	rec, body := serve(t, e, httptest.NewRequest(http.MethodGet, "/state", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	snapshot := decodeData[entity.RotationSnapshot](t, body)
	assert.Equal(t, entity.RotationStateRunning, snapshot.State)
	assert.True(t, snapshot.Active)
	assert.Equal(t, "tok-1", snapshot.Token.Value)
}

func TestDisplayHandler_Start(t *testing.T) {
	e, rotationUC, _ := newDisplayFixture()
	rotationUC.On("Start", mock.Anything).Return(runningSnapshot(), nil)

	rec, body := serve(t, e, httptest.NewRequest(http.MethodPost, "/start", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "QR display state: running", body.Message)
}

func TestDisplayHandler_Start_FirstGenerationFailureStillSucceeds(t *testing.T) {
	e, rotationUC, _ := newDisplayFixture()
	snapshot := runningSnapshot()
	snapshot.Token = nil
	snapshot.SecondsRemaining = 0
	rotationUC.On("Start", mock.Anything).Return(snapshot, domainerrors.ErrGenerationFailure.WithDetails("backend down"))

	rec, body := serve(t, e, httptest.NewRequest(http.MethodPost, "/start", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Contains(t, body.Message, "waiting for the next token")
	assert.Nil(t, decodeData[entity.RotationSnapshot](t, body).Token)
}

func TestDisplayHandler_Stop(t *testing.T) {
	e, rotationUC, _ := newDisplayFixture()
	rotationUC.On("Stop").Return(entity.RotationSnapshot{State: entity.RotationStateIdle, ValidForSeconds: 30})

	rec, body := serve(t, e, httptest.NewRequest(http.MethodPost, "/stop", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.RotationStateIdle, decodeData[entity.RotationSnapshot](t, body).State)
}

func TestDisplayHandler_GetQRCodePNG(t *testing.T) {
	e, rotationUC, qrCode := newDisplayFixture()
	rotationUC.On("CurrentToken").Return(&entity.DisplayToken{Value: "tok-1"}, nil)
	qrCode.On("RenderPNG", "tok-1").Return([]byte("\x89PNG"), nil)

	rec, _ := serve(t, e, httptest.NewRequest(http.MethodGet, "/qr.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl))
	assert.Equal(t, "\x89PNG", rec.Body.String())
}

func TestDisplayHandler_GetQRCodePNG_NoToken(t *testing.T) {
	e, rotationUC, qrCode := newDisplayFixture()
	rotationUC.On("CurrentToken").Return(nil, domainerrors.ErrTokenUnavailable)

	rec, body := serve(t, e, httptest.NewRequest(http.MethodGet, "/qr.png", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TOKEN_UNAVAILABLE", body.Error.Code)
	qrCode.AssertNotCalled(t, "RenderPNG", mock.Anything)
}

func TestDisplayHandler_GetQRCodeText(t *testing.T) {
	e, rotationUC, qrCode := newDisplayFixture()
	rotationUC.On("CurrentToken").Return(&entity.DisplayToken{Value: "tok-2"}, nil)
	qrCode.On("RenderTerminal", "tok-2").Return("██\n", nil)

	rec, _ := serve(t, e, httptest.NewRequest(http.MethodGet, "/qr.txt", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "██\n", rec.Body.String())
}
