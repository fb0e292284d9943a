// Package ws is the persistent-connection transport: one WebSocket
// per participant, JSON envelopes carrying the event protocol.
package ws

import (
	"encoding/json"
	"time"

	"pairchat/domain"
)

// Event names of the wire protocol. Client-to-server and
// server-to-client names overlap on purpose ("typing" flows both
// ways, like the socket it replaces).
const (
	EventRegisterUser   = "register-user"
	EventOnlineUsers    = "online-users"
	EventSendMessage    = "send-message"
	EventReceiveMessage = "receive-message"
	EventTyping         = "typing"
	EventError          = "error"
)

// Envelope wraps every frame in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// SendMessagePayload is the client's sending intent. Type defaults to
// "text"; Timestamp is optional and server time is used when absent.
type SendMessagePayload struct {
	SenderID   string     `json:"senderId"`
	ReceiverID string     `json:"receiverId"`
	Body       string     `json:"message"`
	Kind       string     `json:"type,omitempty"`
	SentAt     *time.Time `json:"timestamp,omitempty"`
}

// TypingPayload flows client to server; the forwarded notice keeps
// only From.
type TypingPayload struct {
	From string `json:"from"`
	To   string `json:"to,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

func newEnvelope(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

func messageEnvelope(m domain.Message) ([]byte, error) {
	return newEnvelope(EventReceiveMessage, m)
}
