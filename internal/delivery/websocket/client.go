package websocket

import (
	"context"
	"encoding/json"
	"time"

	ws "github.com/coder/websocket"
	"github.com/pkg/errors"
)

const (
	sendBufferSize = 64
	pingInterval   = 30 * time.Second
)

// Client represents a single display connection.
type Client struct {
	hub  *Hub
	conn *ws.Conn
	send chan []byte
}

// NewClient creates a Client tied to the given hub and connection.
func NewClient(hub *Hub, conn *ws.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// Queue buffers a message for this client only. It must be called before Run.
func (c *Client) Queue(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.WithStack(err)
	}

	select {
	case c.send <- data:
		return nil
	default:
		return errors.New("client send buffer full")
	}
}

// Run registers the client, starts the write pump, and runs the read pump.
// It blocks until the connection is closed, then unregisters.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		c.writePump(ctx)
		cancel()
	}()
	c.readPump(ctx)
}

// readPump discards incoming frames; displays only listen.
func (c *Client) readPump(ctx context.Context) {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

// writePump drains the send channel and pings to detect stale displays.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
