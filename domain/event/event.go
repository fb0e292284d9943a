package event

import (
	"pairchat/domain"
)

// DomainEvent is anything a connection's sink can consume.
type DomainEvent interface {
	EventName() string
}

// MessageReceived is the live delivery of a persisted message.
// The same event is pushed to the recipient and echoed to the sender.
type MessageReceived struct {
	Message domain.Message
}

func (m MessageReceived) EventName() string { return "receive-message" }

// OnlineUsers carries the full presence set, not a delta.
// A client that missed one broadcast converges on the next.
type OnlineUsers struct {
	Users []string
}

func (o OnlineUsers) EventName() string { return "online-users" }

// TypingNotice is a transient relay, never persisted or retried.
type TypingNotice struct {
	From string
}

func (t TypingNotice) EventName() string { return "typing" }
