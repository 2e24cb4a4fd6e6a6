package websocket

import (
	"log/slog"
	"net/http"
	"time"

	deliverycontext "attendance/internal/delivery/context"
	"attendance/internal/usecase"

	ws "github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// HandlerParams holds dependencies for Handler, injected by Fx.
type HandlerParams struct {
	fx.In

	Hub        *Hub
	RotationUC usecase.RotationUsecase
	Logger     *slog.Logger
}

// Handler upgrades display connections and runs them as hub clients
type Handler struct {
	hub        *Hub
	rotationUC usecase.RotationUsecase
	logger     *slog.Logger
}

// NewHandler is the constructor for Handler
func NewHandler(params HandlerParams) *Handler {
	return &Handler{
		hub:        params.Hub,
		rotationUC: params.RotationUC,
		logger:     params.Logger,
	}
}

// Stream sends the current session snapshot, then every change until the display disconnects
func (h *Handler) Stream(c echo.Context) error {
	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger)

	// server read and write timeouts do not apply to long-lived streams
	rc := http.NewResponseController(c.Response())
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := ws.Accept(c.Response(), c.Request(), &ws.AcceptOptions{
		// display screens are served from other origins on the LAN
		InsecureSkipVerify: true,
	})
	if err != nil {
		logger.Warn("Failed to accept display connection", slog.Any("error", err))

		return nil
	}
	defer conn.CloseNow()

	client := NewClient(h.hub, conn)
	if err := client.Queue(NewSessionMessage(h.rotationUC.Snapshot())); err != nil {
		logger.Warn("Failed to queue initial snapshot", slog.Any("error", err))
	}

	logger.Info("Display connected")
	client.Run(c.Request().Context())
	logger.Info("Display disconnected", slog.Int("remaining", h.hub.ClientCount()))

	return nil
}
