package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "attendance/internal/delivery/context"
	"attendance/internal/delivery/http/response"
	"attendance/internal/domain/service"
	"attendance/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// DisplayHandlerParams holds dependencies for DisplayHandler, injected by Fx.
type DisplayHandlerParams struct {
	fx.In

	RotationUC usecase.RotationUsecase
	QRCode     service.QRCodeService
	Logger     *slog.Logger
}

// DisplayHandler controls the QR display session
type DisplayHandler struct {
	rotationUC usecase.RotationUsecase
	qrCode     service.QRCodeService
	logger     *slog.Logger
}

// NewDisplayHandler is the constructor for DisplayHandler
func NewDisplayHandler(params DisplayHandlerParams) *DisplayHandler {
	return &DisplayHandler{
		rotationUC: params.RotationUC,
		qrCode:     params.QRCode,
		logger:     params.Logger,
	}
}

// GetState returns the current session snapshot
func (h *DisplayHandler) GetState(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.rotationUC.Snapshot(), "")
}

// Start begins rotating QR tokens. A failed first generation still leaves the
// session running, so it is reported in the message rather than as an error.
func (h *DisplayHandler) Start(c echo.Context) error {
	snapshot, err := h.rotationUC.Start(c.Request().Context())
	if err != nil {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).
			Warn("First QR generation failed", slog.Any("error", err))

		return response.Success(c, http.StatusOK, snapshot, "QR display started, waiting for the next token")
	}

	return response.Success(c, http.StatusOK, snapshot, "QR display state: "+string(snapshot.State))
}

// Stop halts rotation and clears the displayed token
func (h *DisplayHandler) Stop(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.rotationUC.Stop(), "QR display stopped")
}

// GetQRCodePNG renders the current token as a PNG image
func (h *DisplayHandler) GetQRCodePNG(c echo.Context) error {
	token, err := h.rotationUC.CurrentToken()
	if err != nil {
		return err
	}

	png, err := h.qrCode.RenderPNG(token.Value)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")

	return c.Blob(http.StatusOK, "image/png", png)
}

// GetQRCodeText renders the current token as block characters for terminals
func (h *DisplayHandler) GetQRCodeText(c echo.Context) error {
	token, err := h.rotationUC.CurrentToken()
	if err != nil {
		return err
	}

	text, err := h.qrCode.RenderTerminal(token.Value)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")

	return c.String(http.StatusOK, text)
}
