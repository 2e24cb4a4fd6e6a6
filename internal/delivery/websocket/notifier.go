package websocket

import (
	"log/slog"

	"attendance/internal/domain/entity"
	"attendance/internal/domain/service"
)

type displayNotifier struct {
	hub    *Hub
	logger *slog.Logger
}

// NewDisplayNotifier broadcasts session events to every connected display
func NewDisplayNotifier(hub *Hub, logger *slog.Logger) service.DisplayNotifier {
	return &displayNotifier{
		hub:    hub,
		logger: logger,
	}
}

func (n *displayNotifier) SessionChanged(snapshot entity.RotationSnapshot) {
	n.hub.Broadcast(NewSessionMessage(snapshot))
}

func (n *displayNotifier) GenerationFailed(err error) {
	n.logger.Warn("Notifying displays of failed QR generation", slog.Any("error", err))
	n.hub.Broadcast(NewErrorMessage(err))
}
