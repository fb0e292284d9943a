//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"pairchat/domain"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	GetConversation(partyA, partyB string) ([]domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// DiskMessage is the stored form of a message.
type DiskMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Body       string    `json:"body"`
	Kind       string    `json:"kind"`
	At         time.Time `json:"at"`
}

// PairKey folds both directions of a conversation into one key part,
// so the history of (a,b) and (b,a) lives under the same prefix.
// Identities are opaque strings, so each half is query-escaped before
// joining: an identity carrying "|" or ":" cannot forge another pair's
// prefix or break the key layout.
func PairKey(partyA, partyB string) string {
	if partyB < partyA {
		partyA, partyB = partyB, partyA
	}
	return fmt.Sprintf("%s|%s", url.QueryEscape(partyA), url.QueryEscape(partyB))
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{pair}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
//
// Messages normally arrive with an ID already assigned by the router;
// one is assigned here otherwise.
func (m MessageRepository) StoreMessage(message domain.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	key := fmt.Sprintf("msg:%s:%019d:%s",
		PairKey(message.SenderID, message.ReceiverID),
		message.SentAt.UnixNano(),
		message.ID,
	)
	bytes, err := json.Marshal(toDiskMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetConversation retrieves every message exchanged between the two
// parties, in either direction, using a prefix scan.
// Thanks to the padded timestamp in the key, messages come out
// naturally sorted ascending by time.
func (m MessageRepository) GetConversation(partyA, partyB string) ([]domain.Message, error) {
	var byteMessages [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", PairKey(partyA, partyB)))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				byteMessages = append(byteMessages, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var messages []domain.Message
	for _, b := range byteMessages {
		var dm DiskMessage
		if err = json.Unmarshal(b, &dm); err != nil {
			return nil, err
		}
		message, err := fromDiskMessage(dm)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func toDiskMessage(message domain.Message) DiskMessage {
	return DiskMessage{
		ID:         message.ID.String(),
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Body:       message.Body,
		Kind:       string(lo.Ternary(message.Kind.Valid(), message.Kind, domain.KindText)),
		At:         message.SentAt.UTC(),
	}
}

func fromDiskMessage(dm DiskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(dm.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:         parsedID,
		SenderID:   dm.SenderID,
		ReceiverID: dm.ReceiverID,
		Body:       dm.Body,
		Kind:       domain.MessageKind(dm.Kind),
		SentAt:     dm.At.UTC(),
	}, nil
}
