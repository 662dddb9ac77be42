//go:generate go run go.uber.org/mock/mockgen -source=delivery.go -destination=../mocks/mock_broadcaster.go -package=mocks
package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/repositories"
)

// Broadcaster fans events out to live connections. Implemented by the
// connection controller; the pipeline stays unaware of transports.
type Broadcaster interface {
	ToAll(e event.Event)
	ToRoom(conversationID string, e event.Event)
	ToRoomExcept(conversationID, exceptConnID string, e event.Event)
	ToConn(connID string, e event.Event)
}

// SendCommand is a message sending intent, identical for the socket path
// and the REST path.
type SendCommand struct {
	ConversationID string
	SenderID       string
	Content        string
	File           *domain.FileRef
}

// DeliveryPipeline persists messages and fans them out to room
// subscribers. Persist-then-broadcast runs under one lock so that, within
// this process, messages of a conversation are stored and observed in the
// order Send was invoked. Cross-process ordering is not guaranteed.
type DeliveryPipeline struct {
	mu            sync.Mutex
	messages      repositories.IMessageRepository
	conversations repositories.IConversationRepository
	users         repositories.IUserRepository
	broadcaster   Broadcaster
	log           *slog.Logger
	clock         func() time.Time
}

func NewDeliveryPipeline(
	log *slog.Logger,
	messages repositories.IMessageRepository,
	conversations repositories.IConversationRepository,
	users repositories.IUserRepository,
	broadcaster Broadcaster,
) *DeliveryPipeline {
	return &DeliveryPipeline{
		messages:      messages,
		conversations: conversations,
		users:         users,
		broadcaster:   broadcaster,
		log:           log,
		clock:         time.Now,
	}
}

// Send validates, persists and broadcasts one message.
//
// A persistence failure aborts the send before any broadcast. The
// conversation's last-message pointer update is best-effort: the message
// counts as sent even if the summary write fails, the summary is simply
// stale until the next successful message.
func (d *DeliveryPipeline) Send(ctx context.Context, cmd SendCommand) (domain.Message, error) {
	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: cmd.ConversationID,
		SenderID:       cmd.SenderID,
		Content:        cmd.Content,
		File:           cmd.File,
		ReadBy:         []string{cmd.SenderID},
		CreatedAt:      d.clock().UTC(),
	}
	if err := message.Validate(); err != nil {
		return domain.Message{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.messages.StoreMessage(message); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	if err := d.conversations.SetLastMessage(cmd.ConversationID, message.ID.String()); err != nil {
		d.log.Warn("Last message pointer update failed",
			"conversation_id", cmd.ConversationID, "error", err)
	}

	d.broadcaster.ToRoom(cmd.ConversationID, d.populate(message))
	return message, nil
}

// MarkRead appends an identity to a message's ReadBy set and notifies the
// conversation's subscribers. Reading an already-read message changes
// nothing and broadcasts nothing.
func (d *DeliveryPipeline) MarkRead(ctx context.Context, messageID, userID string) error {
	message, err := d.messages.GetMessage(messageID)
	if err != nil {
		return errors.ErrNotFound
	}
	if message.IsReadBy(userID) {
		return nil
	}
	if _, err := d.messages.AppendReadBy(messageID, userID); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	d.broadcaster.ToRoom(message.ConversationID, event.MessageReadUpdate{
		MessageID: messageID,
		UserID:    userID,
	})
	return nil
}

// populate resolves the sender's display fields into the outbound event.
// A missing user record degrades to the bare sender ID instead of failing
// a message that is already persisted.
func (d *DeliveryPipeline) populate(message domain.Message) event.MessageReceive {
	sender := event.Sender{ID: message.SenderID}
	if user, err := d.users.GetUserByID(message.SenderID); err == nil {
		sender.Username = user.Username
		sender.Avatar = user.Avatar
	} else {
		d.log.Warn("Sender lookup failed", "sender_id", message.SenderID, "error", err)
	}
	return event.MessageReceive{
		ID:             message.ID.String(),
		ConversationID: message.ConversationID,
		Sender:         sender,
		Content:        message.Content,
		File:           message.File,
		ReadBy:         message.ReadBy,
		CreatedAt:      message.CreatedAt,
	}
}
