//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"chat-relay/domain"
	"chat-relay/errors"
)

type IConversationRepository interface {
	CreateConversation(conversation domain.Conversation) (domain.Conversation, error)
	GetConversation(id string) (domain.Conversation, error)
	GetConversationsForUser(userID string) ([]domain.Conversation, error)
	FindPrivateConversation(userA, userB string) (domain.Conversation, error)
	SetLastMessage(conversationID, messageID string) error
}

type ConversationRepository struct {
	db *badger.DB
}

func NewConversationRepository(db *badger.DB) IConversationRepository {
	return ConversationRepository{db: db}
}

type diskConversation struct {
	ID            string    `json:"id"`
	Participants  []string  `json:"participants"`
	IsGroup       bool      `json:"is_group"`
	GroupName     string    `json:"group_name,omitempty"`
	GroupAdmin    string    `json:"group_admin,omitempty"`
	LastMessageID string    `json:"last_message_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func conversationKey(id string) []byte { return []byte("conv:" + id) }

func (c ConversationRepository) CreateConversation(conversation domain.Conversation) (domain.Conversation, error) {
	if err := conversation.Validate(); err != nil {
		return domain.Conversation{}, err
	}
	now := time.Now().UTC()
	conversation.ID = uuid.NewString()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now

	data, err := json.Marshal(fromDomainConversation(conversation))
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("marshal failed: %w", err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(conversationKey(conversation.ID), data)
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	return conversation, nil
}

func (c ConversationRepository) GetConversation(id string) (domain.Conversation, error) {
	var stored diskConversation
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(conversationKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &stored)
		})
	})
	if err != nil {
		return domain.Conversation{}, errors.ErrNotFound
	}
	return toDomainConversation(stored), nil
}

// GetConversationsForUser returns every conversation the user participates
// in, most recently updated first.
func (c ConversationRepository) GetConversationsForUser(userID string) ([]domain.Conversation, error) {
	conversations, err := c.scan(func(conversation domain.Conversation) bool {
		return conversation.HasParticipant(userID)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})
	return conversations, nil
}

// FindPrivateConversation looks up the existing 1:1 conversation between
// two users so that repeated creates reuse it. Returns ErrNotFound when
// none exists yet.
func (c ConversationRepository) FindPrivateConversation(userA, userB string) (domain.Conversation, error) {
	conversations, err := c.scan(func(conversation domain.Conversation) bool {
		return !conversation.IsGroup &&
			conversation.HasParticipant(userA) &&
			conversation.HasParticipant(userB)
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	if len(conversations) == 0 {
		return domain.Conversation{}, errors.ErrNotFound
	}
	return conversations[0], nil
}

// SetLastMessage moves the conversation's last-message pointer. This is a
// best-effort summary update; message durability never depends on it.
func (c ConversationRepository) SetLastMessage(conversationID, messageID string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(conversationKey(conversationID))
		if err != nil {
			return errors.ErrNotFound
		}
		var stored diskConversation
		if err := item.Value(func(value []byte) error {
			return json.Unmarshal(value, &stored)
		}); err != nil {
			return err
		}
		stored.LastMessageID = messageID
		stored.UpdatedAt = time.Now().UTC()
		data, err := json.Marshal(stored)
		if err != nil {
			return err
		}
		return txn.Set(conversationKey(conversationID), data)
	})
}

func (c ConversationRepository) scan(match func(domain.Conversation) bool) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := []byte("conv:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var stored diskConversation
				if err := json.Unmarshal(value, &stored); err != nil {
					return err
				}
				if conversation := toDomainConversation(stored); match(conversation) {
					conversations = append(conversations, conversation)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return conversations, err
}

func fromDomainConversation(conversation domain.Conversation) diskConversation {
	return diskConversation{
		ID:            conversation.ID,
		Participants:  conversation.Participants,
		IsGroup:       conversation.IsGroup,
		GroupName:     conversation.GroupName,
		GroupAdmin:    conversation.GroupAdmin,
		LastMessageID: conversation.LastMessageID,
		CreatedAt:     conversation.CreatedAt,
		UpdatedAt:     conversation.UpdatedAt,
	}
}

func toDomainConversation(stored diskConversation) domain.Conversation {
	return domain.Conversation{
		ID:            stored.ID,
		Participants:  stored.Participants,
		IsGroup:       stored.IsGroup,
		GroupName:     stored.GroupName,
		GroupAdmin:    stored.GroupAdmin,
		LastMessageID: stored.LastMessageID,
		CreatedAt:     stored.CreatedAt,
		UpdatedAt:     stored.UpdatedAt,
	}
}
