// Package api is the synchronous read side: plain HTTP queries over
// the message store, separate from the persistent connection.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"pairchat/contract"
	"pairchat/domain"
	"pairchat/domain/chat"
	"pairchat/errors"
)

type HistoryHandler struct {
	log     *slog.Logger
	history contract.IHistoryService
}

func NewHistoryHandler(log *slog.Logger, history contract.IHistoryService) *HistoryHandler {
	return &HistoryHandler{log: log, history: history}
}

// GetConversation handles GET /messages/{partyA}/{partyB}.
// The order of the two parties does not matter; the response is the
// full conversation ascending by timestamp.
func (h *HistoryHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cmd := chat.GetConversationCommand{
		PartyA: vars["partyA"],
		PartyB: vars["partyB"],
	}

	messages, err := h.history.GetConversation(cmd)
	if err != nil {
		h.log.Warn("history query failed", "error", err)
		http.Error(w, err.Error(), errors.MapToHTTPStatus(err))
		return
	}
	if messages == nil {
		// An empty conversation is a valid, empty array.
		messages = []domain.Message{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(messages)
}

// Healthz is a bare liveness probe.
func (h *HistoryHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// RegisterRoutes mounts the read-side endpoints.
func (h *HistoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/messages/{partyA}/{partyB}", h.GetConversation).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)
}
