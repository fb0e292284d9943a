package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pairchat/domain/event"
)

// Config tunes the per-connection pumps.
type Config struct {
	MaxMessageSize int64
	WriteWait      time.Duration
	PongWait       time.Duration
	PingInterval   time.Duration
	SendBufferSize int
}

// Client owns one live WebSocket session. It is also the connection's
// EventSink: Consume encodes an event and enqueues it on the outbound
// channel without blocking, so a stalled reader drops frames instead
// of back-pressuring whoever is routing to it.
type Client struct {
	ID     uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
	log    *slog.Logger
	config Config
}

func NewClient(log *slog.Logger, conn *websocket.Conn, cfg Config) *Client {
	return &Client{
		ID:     uuid.New(),
		conn:   conn,
		send:   make(chan []byte, cfg.SendBufferSize),
		log:    log,
		config: cfg,
	}
}

// Consume implements contract.EventSink.
func (c *Client) Consume(_ context.Context, e event.DomainEvent) error {
	frame, err := encode(e)
	if err != nil {
		return err
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return fmt.Errorf("send buffer full for connection %s", c.ID)
	}
}

func encode(e event.DomainEvent) ([]byte, error) {
	switch evt := e.(type) {
	case event.MessageReceived:
		return messageEnvelope(evt.Message)
	case event.OnlineUsers:
		return newEnvelope(EventOnlineUsers, evt.Users)
	case event.TypingNotice:
		return newEnvelope(EventTyping, TypingPayload{From: evt.From})
	default:
		return nil, fmt.Errorf("unmapped event %q", e.EventName())
	}
}

// SendError surfaces a rejection to this client only. The connection
// stays open.
func (c *Client) SendError(message string) {
	frame, err := newEnvelope(EventError, ErrorPayload{Error: message})
	if err != nil {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

// ReadPump decodes inbound envelopes and hands them to the handler.
// It owns the connection's read side and runs until the client goes
// away; the deferred cleanup is what turns a dropped TCP session into
// an unregister.
func (c *Client) ReadPump(handle func(*Client, Envelope), disconnect func(*Client)) {
	defer func() {
		disconnect(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("websocket read failed", "connection", c.ID, "error", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.SendError("invalid message format")
			continue
		}
		handle(c, env)
	}
}

// WritePump drains the outbound channel onto the socket and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
