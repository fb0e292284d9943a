package services

import (
	"context"

	"pairchat/contract"
	"pairchat/domain"
	"pairchat/domain/chat"
	"pairchat/runtime"
)

type IChatService interface {
	Send(ctx context.Context, cmd chat.SendMessageCommand, origin contract.EventSink) (domain.Message, error)
	NotifyTyping(ctx context.Context, cmd chat.TypingCommand) error
	Connect(identity string, sink contract.EventSink)
	Disconnect(sink contract.EventSink)
}

// ChatService is the thin facade the transport layer talks to.
type ChatService struct {
	registry *runtime.Registry
	router   *runtime.Router
	typing   *runtime.TypingSignal
}

func NewChatService(registry *runtime.Registry, router *runtime.Router, typing *runtime.TypingSignal) *ChatService {
	return &ChatService{registry: registry, router: router, typing: typing}
}

func (s *ChatService) Send(ctx context.Context, cmd chat.SendMessageCommand, origin contract.EventSink) (domain.Message, error) {
	return s.router.Send(ctx, cmd, origin)
}

func (s *ChatService) NotifyTyping(ctx context.Context, cmd chat.TypingCommand) error {
	return s.typing.NotifyTyping(ctx, cmd)
}

func (s *ChatService) Connect(identity string, sink contract.EventSink) {
	s.registry.Register(identity, sink)
}

func (s *ChatService) Disconnect(sink contract.EventSink) {
	s.registry.Unregister(sink)
}
