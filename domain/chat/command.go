package chat

import (
	"time"

	"pairchat/domain"
)

// SendMessageCommand carries a sending intent from the transport layer.
// SentAt stays nil when the client did not supply a timestamp; the
// router assigns server time in that case.
type SendMessageCommand struct {
	SenderID   string `validate:"required"`
	ReceiverID string `validate:"required"`
	Body       string `validate:"required"`
	Kind       domain.MessageKind
	SentAt     *time.Time
}

// TypingCommand is an ephemeral notice, never persisted.
type TypingCommand struct {
	From string `validate:"required"`
	To   string `validate:"required"`
}

// GetConversationCommand asks for the full history between two
// participants, in either direction.
type GetConversationCommand struct {
	PartyA string `validate:"required"`
	PartyB string `validate:"required"`
}
