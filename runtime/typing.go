package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"pairchat/domain/chat"
	"pairchat/domain/event"
	"pairchat/errors"
)

// TypingSignal relays ephemeral "is typing" notices. Stateless:
// nothing is persisted, queued, or retried, and an offline peer is a
// silent no-op.
type TypingSignal struct {
	log      *slog.Logger
	registry *Registry
}

func NewTypingSignal(log *slog.Logger, registry *Registry) *TypingSignal {
	return &TypingSignal{log: log, registry: registry}
}

func (t *TypingSignal) NotifyTyping(ctx context.Context, cmd chat.TypingCommand) error {
	if err := validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrMalformedRequest, err)
	}

	sink, ok := t.registry.Lookup(cmd.To)
	if !ok {
		return nil
	}
	if err := sink.Consume(ctx, event.TypingNotice{From: cmd.From}); err != nil {
		t.log.Debug("typing notice dropped", "to", cmd.To, "error", err)
	}
	return nil
}
