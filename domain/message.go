// Package domain contains core concepts of the chat system.
// This file defines Message and related rules.
// Messages are immutable once created by the router.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageKind tags the content of a message at its point of origin.
// The tag travels with the message; it is never inferred from the body.
type MessageKind string

const (
	KindText           MessageKind = "text"
	KindVoiceReference MessageKind = "voice-reference"
)

// Valid reports whether k is a known kind.
func (k MessageKind) Valid() bool {
	return k == KindText || k == KindVoiceReference
}

// Message represents an immutable chat event between two participants.
type Message struct {
	ID         uuid.UUID   `json:"id"`
	SenderID   string      `json:"senderId"`
	ReceiverID string      `json:"receiverId"`
	Body       string      `json:"message"`
	Kind       MessageKind `json:"type"`
	SentAt     time.Time   `json:"timestamp"`
}
