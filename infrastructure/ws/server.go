package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"pairchat/domain"
	"pairchat/domain/chat"
	"pairchat/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	log     *slog.Logger
	service services.IChatService
	config  Config
}

func NewHandler(log *slog.Logger, service services.IChatService, cfg Config) *Handler {
	return &Handler{log: log, service: service, config: cfg}
}

// HandleWebSocket upgrades the request and starts the connection's
// two pumps. The connection stays anonymous until the client announces
// itself with a register-user event.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(h.log, conn, h.config)
	h.log.Debug("connection opened", "connection", client.ID)

	go client.WritePump()
	go client.ReadPump(h.handleEvent, h.disconnect)
}

// disconnect runs exactly once per connection, when its read pump
// exits. Unregistering fires the presence broadcast.
func (h *Handler) disconnect(client *Client) {
	h.service.Disconnect(client)
	h.log.Debug("connection closed", "connection", client.ID)
}

func (h *Handler) handleEvent(client *Client, env Envelope) {
	ctx := context.Background()

	switch env.Event {
	case EventRegisterUser:
		var userID string
		if err := json.Unmarshal(env.Data, &userID); err != nil || userID == "" {
			client.SendError("register-user requires a user id")
			return
		}
		h.service.Connect(userID, client)

	case EventSendMessage:
		var payload SendMessagePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			client.SendError("invalid send-message payload")
			return
		}
		cmd := chat.SendMessageCommand{
			SenderID:   payload.SenderID,
			ReceiverID: payload.ReceiverID,
			Body:       payload.Body,
			Kind:       domain.MessageKind(payload.Kind),
			SentAt:     payload.SentAt,
		}
		if _, err := h.service.Send(ctx, cmd, client); err != nil {
			h.log.Warn("send rejected", "connection", client.ID, "error", err)
			client.SendError(err.Error())
		}

	case EventTyping:
		var payload TypingPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			client.SendError("invalid typing payload")
			return
		}
		cmd := chat.TypingCommand{From: payload.From, To: payload.To}
		if err := h.service.NotifyTyping(ctx, cmd); err != nil {
			client.SendError(err.Error())
		}

	default:
		client.SendError("unknown event type")
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws", h.HandleWebSocket)
}
