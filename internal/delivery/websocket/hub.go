// Package websocket pushes rotation session updates to connected display screens.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"attendance/internal/domain/entity"
	domainerrors "attendance/internal/domain/errors"
	"attendance/internal/errors"
)

const (
	MessageTypeSession      = "session"
	MessageTypeNotification = "notification"
)

// Message is one frame sent to display clients
type Message struct {
	Type         string                   `json:"type"`
	Session      *entity.RotationSnapshot `json:"session,omitempty"`
	Notification *Notification            `json:"notification,omitempty"`
}

// Notification is a one-shot, user-visible event
type Notification struct {
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewSessionMessage wraps a session snapshot
func NewSessionMessage(snapshot entity.RotationSnapshot) Message {
	return Message{
		Type:    MessageTypeSession,
		Session: &snapshot,
	}
}

// NewErrorMessage wraps an error as an error-level notification
func NewErrorMessage(err error) Message {
	notification := &Notification{
		Level:   "error",
		Code:    "INTERNAL_ERROR",
		Message: err.Error(),
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		notification.Code = appErr.ErrorCode()
		notification.Message = appErr.Message()
	}

	return Message{
		Type:         MessageTypeNotification,
		Notification: notification,
	}
}

// Hub maintains the set of active display clients and broadcasts messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends a message to all connected clients. Slow clients miss
// messages instead of blocking the session.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal display message", slog.Any("error", err))

		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Debug("Display client buffer full, dropping message", slog.String("type", msg.Type))
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
