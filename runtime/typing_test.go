package runtime

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"pairchat/domain/chat"
	"pairchat/domain/event"
	"pairchat/errors"
)

func TestTypingSignal_Forwards_To_Online_Peer(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	typing := NewTypingSignal(log, registry)

	peer := &FakeSink{}
	registry.Register("u2", peer)

	// When u1 starts typing to the online u2
	err := typing.NotifyTyping(context.Background(), chat.TypingCommand{From: "u1", To: "u2"})

	// Then the peer got one transient notice carrying only the origin
	req.NoError(err)
	received := peer.Received()
	notices := 0
	for _, e := range received {
		if notice, ok := e.(event.TypingNotice); ok {
			notices++
			req.Equal("u1", notice.From)
		}
	}
	req.Equal(1, notices)
}

func TestTypingSignal_Offline_Peer_Is_Silent_Noop(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	typing := NewTypingSignal(log, NewRegistry())

	// When the peer is not registered
	err := typing.NotifyTyping(context.Background(), chat.TypingCommand{From: "u1", To: "ghost"})

	// Then no event and no error
	req.NoError(err)
}

func TestTypingSignal_Rejects_Missing_Fields(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	typing := NewTypingSignal(log, NewRegistry())

	err := typing.NotifyTyping(context.Background(), chat.TypingCommand{From: "u1"})
	req.ErrorIs(err, errors.ErrMalformedRequest)

	err = typing.NotifyTyping(context.Background(), chat.TypingCommand{To: "u2"})
	req.ErrorIs(err, errors.ErrMalformedRequest)
}

func TestTypingSignal_Swallows_Transport_Failure(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	typing := NewTypingSignal(log, registry)

	registry.Register("u2", &FailingSink{})

	// When the peer's buffer rejects the notice
	err := typing.NotifyTyping(context.Background(), chat.TypingCommand{From: "u1", To: "u2"})

	// Then best-effort means no error either way
	req.NoError(err)
}
