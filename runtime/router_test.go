package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"pairchat/domain"
	"pairchat/domain/chat"
	"pairchat/domain/event"
	"pairchat/errors"
)

// FailingSink rejects everything, like a connection with a full
// outbound buffer.
type FailingSink struct{}

func (s *FailingSink) Consume(_ context.Context, _ event.DomainEvent) error {
	return fmt.Errorf("send buffer full")
}

// FakeRepository keeps appended messages in memory.
type FakeRepository struct {
	Stored []domain.Message
	Err    error
}

func (r *FakeRepository) StoreMessage(message domain.Message) error {
	if r.Err != nil {
		return r.Err
	}
	r.Stored = append(r.Stored, message)
	return nil
}

func (r *FakeRepository) GetConversation(_, _ string) ([]domain.Message, error) {
	return r.Stored, nil
}

func deliveries(events []event.DomainEvent) []domain.Message {
	var messages []domain.Message
	for _, e := range events {
		if m, ok := e.(event.MessageReceived); ok {
			messages = append(messages, m.Message)
		}
	}
	return messages
}

func TestRouter_Send_Persists_Delivers_And_Echoes(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	repository := &FakeRepository{}
	router := NewRouter(log, registry, repository)

	sender := &FakeSink{}
	receiver := &FakeSink{}
	registry.Register("u1", sender)
	registry.Register("u2", receiver)

	// When u1 sends a message to the online u2
	message, err := router.Send(context.Background(), chat.SendMessageCommand{
		SenderID:   "u1",
		ReceiverID: "u2",
		Body:       "hi",
	}, sender)

	// Then the message is persisted
	req.NoError(err)
	req.Len(repository.Stored, 1)
	req.Equal(message, repository.Stored[0])
	req.NotEqual(uuid.Nil, message.ID)
	req.Equal(domain.KindText, message.Kind)

	// And the receiver got exactly one delivery equal to the persisted message
	received := deliveries(receiver.Received())
	req.Len(received, 1)
	req.Equal(message, received[0])

	// And the sender got exactly one echo of the same message
	echoed := deliveries(sender.Received())
	req.Len(echoed, 1)
	req.Equal(message, echoed[0])
}

func TestRouter_Send_Offline_Receiver_Is_Store_Only(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	repository := &FakeRepository{}
	router := NewRouter(log, registry, repository)

	sender := &FakeSink{}
	registry.Register("u1", sender)

	// When the receiver is not registered
	message, err := router.Send(context.Background(), chat.SendMessageCommand{
		SenderID:   "u1",
		ReceiverID: "u2",
		Body:       "bye",
	}, sender)

	// Then the send still succeeds and persists
	req.NoError(err)
	req.Len(repository.Stored, 1)

	// And the sender still gets its echo
	req.Len(deliveries(sender.Received()), 1)
	req.Equal(message, repository.Stored[0])
}

func TestRouter_Send_Rejects_Missing_Fields(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	repository := &FakeRepository{}
	router := NewRouter(log, registry, repository)

	commands := []chat.SendMessageCommand{
		{ReceiverID: "u2", Body: "hi"},
		{SenderID: "u1", Body: "hi"},
		{SenderID: "u1", ReceiverID: "u2"},
	}
	for _, cmd := range commands {
		_, err := router.Send(context.Background(), cmd, nil)

		// Then the whole operation is rejected with no partial processing
		req.ErrorIs(err, errors.ErrMalformedRequest)
	}
	req.Empty(repository.Stored)
}

func TestRouter_Send_Rejects_Unknown_Kind(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	router := NewRouter(log, NewRegistry(), &FakeRepository{})

	_, err := router.Send(context.Background(), chat.SendMessageCommand{
		SenderID:   "u1",
		ReceiverID: "u2",
		Body:       "hi",
		Kind:       "hologram",
	}, nil)

	req.ErrorIs(err, errors.ErrMalformedRequest)
}

func TestRouter_Send_Aborts_On_Persistence_Failure(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	repository := &FakeRepository{Err: fmt.Errorf("disk on fire")}
	router := NewRouter(log, registry, repository)

	sender := &FakeSink{}
	receiver := &FakeSink{}
	registry.Register("u1", sender)
	registry.Register("u2", receiver)

	// When the durable append fails
	_, err := router.Send(context.Background(), chat.SendMessageCommand{
		SenderID:   "u1",
		ReceiverID: "u2",
		Body:       "hi",
	}, sender)

	// Then the caller sees the failure and no delivery was attempted
	req.ErrorIs(err, errors.ErrPersistenceFailure)
	req.Empty(deliveries(receiver.Received()))
	req.Empty(deliveries(sender.Received()))
}

func TestRouter_Send_Swallows_Delivery_Failure(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	repository := &FakeRepository{}
	router := NewRouter(log, registry, repository)

	registry.Register("u2", &FailingSink{})

	// When the live push to an online receiver fails at the transport
	_, err := router.Send(context.Background(), chat.SendMessageCommand{
		SenderID:   "u1",
		ReceiverID: "u2",
		Body:       "hi",
	}, &FailingSink{})

	// Then persistence already succeeded, so the send call does not fail
	req.NoError(err)
	req.Len(repository.Stored, 1)
}

func TestRouter_Send_Assigns_Server_Time_When_Absent(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	router := NewRouter(log, NewRegistry(), &FakeRepository{})

	before := time.Now().UTC()
	message, err := router.Send(context.Background(), chat.SendMessageCommand{
		SenderID:   "u1",
		ReceiverID: "u2",
		Body:       "hi",
	}, nil)
	after := time.Now().UTC()

	req.NoError(err)
	req.False(message.SentAt.Before(before))
	req.False(message.SentAt.After(after))
}

func TestRouter_Send_Keeps_Client_Timestamp(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	router := NewRouter(log, NewRegistry(), &FakeRepository{})

	sentAt := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	message, err := router.Send(context.Background(), chat.SendMessageCommand{
		SenderID:   "u1",
		ReceiverID: "u2",
		Body:       "hi",
		SentAt:     &sentAt,
	}, nil)

	req.NoError(err)
	req.Equal(sentAt, message.SentAt)
}
