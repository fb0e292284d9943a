package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"pairchat/contract"
	"pairchat/domain"
	"pairchat/domain/chat"
	"pairchat/domain/event"
	"pairchat/errors"
	"pairchat/repositories"
)

var validate = validator.New()

// Router accepts send requests: it persists first, then attempts one
// best-effort live delivery plus an echo to the sender.
//
// The durable append is the only step allowed to fail the call. Once
// it succeeds the message is recoverable through history, so a failed
// live push is logged and swallowed. The registry lock is never held
// across the append.
type Router struct {
	log        *slog.Logger
	registry   *Registry
	repository repositories.IMessageRepository
}

func NewRouter(log *slog.Logger, registry *Registry, repository repositories.IMessageRepository) *Router {
	return &Router{log: log, registry: registry, repository: repository}
}

// Send validates, persists, then routes. origin is the handle the
// command arrived on; the echo goes there unconditionally so the
// sender's other open views reflect the send without a round trip
// through storage.
func (r *Router) Send(ctx context.Context, cmd chat.SendMessageCommand, origin contract.EventSink) (domain.Message, error) {
	if err := validate.Struct(cmd); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrMalformedRequest, err)
	}

	kind := cmd.Kind
	if kind == "" {
		kind = domain.KindText
	}
	if !kind.Valid() {
		return domain.Message{}, fmt.Errorf("%w: unknown message type %q", errors.ErrMalformedRequest, cmd.Kind)
	}

	sentAt := time.Now().UTC()
	if cmd.SentAt != nil {
		sentAt = cmd.SentAt.UTC()
	}

	message := domain.Message{
		ID:         uuid.New(),
		SenderID:   cmd.SenderID,
		ReceiverID: cmd.ReceiverID,
		Body:       cmd.Body,
		Kind:       kind,
		SentAt:     sentAt,
	}

	if err := r.repository.StoreMessage(message); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrPersistenceFailure, err)
	}

	evt := event.MessageReceived{Message: message}

	// Registry miss is not an error: the recipient rehydrates from
	// history on their next session.
	if sink, ok := r.registry.Lookup(cmd.ReceiverID); ok {
		if err := sink.Consume(ctx, evt); err != nil {
			r.log.Warn("live delivery failed after persist",
				"message_id", message.ID,
				"receiver_id", cmd.ReceiverID,
				"error", err)
		}
	}

	if origin != nil {
		if err := origin.Consume(ctx, evt); err != nil {
			r.log.Warn("sender echo failed",
				"message_id", message.ID,
				"sender_id", cmd.SenderID,
				"error", err)
		}
	}

	return message, nil
}
