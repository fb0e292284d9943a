package services

import (
	"fmt"

	"pairchat/domain"
	"pairchat/domain/chat"
	"pairchat/errors"
	"pairchat/repositories"
)

// HistoryService is the read-only query surface over the message
// store. It is how a reconnecting session rehydrates a conversation
// and how messages sent to an offline peer are eventually recovered.
type HistoryService struct {
	repository repositories.IMessageRepository
}

func NewHistoryService(repository repositories.IMessageRepository) *HistoryService {
	return &HistoryService{repository: repository}
}

// GetConversation returns every message between the two parties in
// either direction, ascending by timestamp. Repeated calls with no
// intervening append return identical sequences.
func (s *HistoryService) GetConversation(cmd chat.GetConversationCommand) ([]domain.Message, error) {
	if cmd.PartyA == "" || cmd.PartyB == "" {
		return nil, fmt.Errorf("%w: both parties are required", errors.ErrMalformedRequest)
	}
	return s.repository.GetConversation(cmd.PartyA, cmd.PartyB)
}
