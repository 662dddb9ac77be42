//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-relay/domain"
	"chat-relay/errors"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	GetMessage(id string) (domain.Message, error)
	GetMessages(conversationID string, cursor *string) ([]domain.Message, *string, error)
	AppendReadBy(id, userID string) (domain.Message, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// diskMessage is the stored representation of a message.
type diskMessage struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id"`
	SenderID       string          `json:"sender_id"`
	Content        string          `json:"content,omitempty"`
	File           *domain.FileRef `json:"file,omitempty"`
	ReadBy         []string        `json:"read_by"`
	At             int64           `json:"at"`
}

// messageKey builds "msg:{conversation}:{timestamp_padded}:{uuid}":
//  1. The 19-digit zero padding keeps chronological order under
//     lexicographical iteration.
//  2. The UUID suffix disambiguates two messages landing on the same
//     nanosecond.
func messageKey(conversationID string, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", conversationID, at.UnixNano(), id))
}

// msgIndexKey maps a message ID to its primary key for point lookups.
func msgIndexKey(id string) []byte { return []byte("msgid:" + id) }

// StoreMessage persists a message under its ordered primary key plus an
// ID index entry, in one transaction.
func (m MessageRepository) StoreMessage(message domain.Message) error {
	bytes, err := json.Marshal(fromDomainMessage(message))
	if err != nil {
		return err
	}
	key := messageKey(message.ConversationID, message.CreatedAt, message.ID)
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, bytes); err != nil {
			return err
		}
		return txn.Set(msgIndexKey(message.ID.String()), key)
	})
}

func (m MessageRepository) GetMessage(id string) (domain.Message, error) {
	var stored diskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		indexItem, err := txn.Get(msgIndexKey(id))
		if err != nil {
			return err
		}
		var primaryKey []byte
		if err := indexItem.Value(func(value []byte) error {
			primaryKey = append(primaryKey, value...)
			return nil
		}); err != nil {
			return err
		}
		item, err := txn.Get(primaryKey)
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &stored)
		})
	})
	if err != nil {
		return domain.Message{}, errors.ErrNotFound
	}
	return toDomainMessage(stored)
}

// GetMessages retrieves messages for a conversation using a reverse prefix
// scan, most recent first. Thanks to the padded timestamp in the key the
// iteration order is the chronological order. It stops once the configured
// limitMessages is reached and returns an opaque cursor for the next page.
func (m MessageRepository) GetMessages(conversationID string, cursor *string) ([]domain.Message, *string, error) {
	var rawMessages [][]byte
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", conversationID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past any possible timestamp, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(rawMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				rawMessages = append(rawMessages, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var messages []domain.Message
	for _, raw := range rawMessages {
		var stored diskMessage
		if err = json.Unmarshal(raw, &stored); err != nil {
			return nil, nil, err
		}
		message, err := toDomainMessage(stored)
		if err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	return messages, &lastKey, nil
}

// AppendReadBy grows a message's ReadBy set. Adding an identity that
// already read the message is a no-op. Returns the updated message.
func (m MessageRepository) AppendReadBy(id, userID string) (domain.Message, error) {
	message, err := m.GetMessage(id)
	if err != nil {
		return domain.Message{}, err
	}
	if message.IsReadBy(userID) {
		return message, nil
	}
	message.ReadBy = append(message.ReadBy, userID)

	bytes, err := json.Marshal(fromDomainMessage(message))
	if err != nil {
		return domain.Message{}, err
	}
	key := messageKey(message.ConversationID, message.CreatedAt, message.ID)
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, bytes)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

func fromDomainMessage(message domain.Message) diskMessage {
	return diskMessage{
		ID:             message.ID.String(),
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Content:        message.Content,
		File:           message.File,
		ReadBy:         message.ReadBy,
		At:             message.CreatedAt.UnixNano(),
	}
}

func toDomainMessage(stored diskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(stored.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:             parsedID,
		ConversationID: stored.ConversationID,
		SenderID:       stored.SenderID,
		Content:        stored.Content,
		File:           stored.File,
		ReadBy:         lo.Ternary(stored.ReadBy != nil, stored.ReadBy, []string{}),
		CreatedAt:      time.Unix(0, stored.At).UTC(),
	}, nil
}
