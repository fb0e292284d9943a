package runtime

import (
	"context"
	"log/slog"

	"pairchat/domain/event"
)

// PresenceBroadcaster pushes the full current presence set to every
// live connection on each registry change. Full state rather than
// deltas: a client that missed one broadcast converges on the next,
// and a redundant broadcast is harmless because the payload is
// idempotent.
type PresenceBroadcaster struct {
	registry *Registry
	log      *slog.Logger
}

func NewPresenceBroadcaster(log *slog.Logger, registry *Registry) *PresenceBroadcaster {
	b := &PresenceBroadcaster{registry: registry, log: log}
	registry.OnChange(b.Broadcast)
	return b
}

// Broadcast fans the identity set out to every sink. Sink enqueue is
// non-blocking, so one stalled connection cannot delay the others or
// the registry mutation that triggered the broadcast.
func (b *PresenceBroadcaster) Broadcast(online []string) {
	evt := event.OnlineUsers{Users: online}
	for _, sink := range b.registry.Sinks() {
		if err := sink.Consume(context.Background(), evt); err != nil {
			b.log.Debug("presence broadcast dropped", "error", err)
		}
	}
}
