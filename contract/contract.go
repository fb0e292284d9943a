//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"pairchat/domain"
	"pairchat/domain/chat"
	"pairchat/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the outbound side of one live connection.
// Consume must not block: a slow connection drops events instead of
// back-pressuring the caller.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry is the live identity -> connection mapping.
// One entry per identity; registering again silently replaces the
// previous sink.
type IRegistry interface {
	Register(identity string, sink EventSink)
	Unregister(sink EventSink)
	Lookup(identity string) (EventSink, bool)
	Snapshot() []string
}

type IMessageRouter interface {
	Send(ctx context.Context, cmd chat.SendMessageCommand, origin EventSink) (domain.Message, error)
}

type ITypingSignal interface {
	NotifyTyping(ctx context.Context, cmd chat.TypingCommand) error
}

type IHistoryService interface {
	GetConversation(cmd chat.GetConversationCommand) ([]domain.Message, error)
}
