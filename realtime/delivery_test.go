package realtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/mocks"
)

func newPipeline(t *testing.T) (*DeliveryPipeline, *mocks.MockIMessageRepository, *mocks.MockIConversationRepository, *mocks.MockIUserRepository, *mocks.MockBroadcaster) {
	ctrl := gomock.NewController(t)
	messages := mocks.NewMockIMessageRepository(ctrl)
	conversations := mocks.NewMockIConversationRepository(ctrl)
	users := mocks.NewMockIUserRepository(ctrl)
	broadcaster := mocks.NewMockBroadcaster(ctrl)
	pipeline := NewDeliveryPipeline(slog.Default(), messages, conversations, users, broadcaster)
	return pipeline, messages, conversations, users, broadcaster
}

func TestDeliveryPipeline_Send(t *testing.T) {
	t.Run("should persist then broadcast a populated message", func(t *testing.T) {
		req := require.New(t)
		pipeline, messages, conversations, users, broadcaster := newPipeline(t)

		messages.EXPECT().StoreMessage(gomock.Any()).Return(nil).Times(1)
		conversations.EXPECT().SetLastMessage("conv-a", gomock.Any()).Return(nil).Times(1)
		users.EXPECT().GetUserByID("alice").
			Return(domain.User{ID: "alice", Username: "Alice", Avatar: "a.png"}, nil).
			Times(1)

		var received event.MessageReceive
		broadcaster.EXPECT().
			ToRoom("conv-a", gomock.Any()).
			Do(func(_ string, e event.Event) { received = e.(event.MessageReceive) }).
			Times(1)

		message, err := pipeline.Send(context.Background(), SendCommand{
			ConversationID: "conv-a",
			SenderID:       "alice",
			Content:        "hello",
		})

		req.NoError(err)
		req.Equal([]string{"alice"}, message.ReadBy)
		req.Equal("Alice", received.Sender.Username)
		req.Equal("hello", received.Content)
		req.Equal(message.ID.String(), received.ID)
	})

	t.Run("should reject an empty message before touching the store", func(t *testing.T) {
		req := require.New(t)
		pipeline, messages, _, _, broadcaster := newPipeline(t)

		// Nothing persisted, nothing broadcast
		messages.EXPECT().StoreMessage(gomock.Any()).Times(0)
		broadcaster.EXPECT().ToRoom(gomock.Any(), gomock.Any()).Times(0)

		_, err := pipeline.Send(context.Background(), SendCommand{
			ConversationID: "conv-a",
			SenderID:       "alice",
		})

		req.ErrorIs(err, errors.ErrValidation)
	})

	t.Run("should not broadcast when persistence fails", func(t *testing.T) {
		req := require.New(t)
		pipeline, messages, _, _, broadcaster := newPipeline(t)

		messages.EXPECT().StoreMessage(gomock.Any()).Return(errors.ErrPersistence).Times(1)
		broadcaster.EXPECT().ToRoom(gomock.Any(), gomock.Any()).Times(0)

		_, err := pipeline.Send(context.Background(), SendCommand{
			ConversationID: "conv-a",
			SenderID:       "alice",
			Content:        "hello",
		})

		req.ErrorIs(err, errors.ErrPersistence)
	})

	t.Run("should still deliver when the last-message pointer write fails", func(t *testing.T) {
		req := require.New(t)
		pipeline, messages, conversations, users, broadcaster := newPipeline(t)

		messages.EXPECT().StoreMessage(gomock.Any()).Return(nil).Times(1)
		conversations.EXPECT().SetLastMessage("conv-a", gomock.Any()).
			Return(errors.ErrPersistence).Times(1)
		users.EXPECT().GetUserByID("alice").Return(domain.User{ID: "alice"}, nil).Times(1)
		broadcaster.EXPECT().ToRoom("conv-a", gomock.Any()).Times(1)

		_, err := pipeline.Send(context.Background(), SendCommand{
			ConversationID: "conv-a",
			SenderID:       "alice",
			Content:        "hello",
		})

		req.NoError(err)
	})

	t.Run("should degrade to the bare sender ID when the lookup fails", func(t *testing.T) {
		req := require.New(t)
		pipeline, messages, conversations, users, broadcaster := newPipeline(t)

		messages.EXPECT().StoreMessage(gomock.Any()).Return(nil).Times(1)
		conversations.EXPECT().SetLastMessage(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		users.EXPECT().GetUserByID("alice").Return(domain.User{}, errors.ErrNotFound).Times(1)

		var received event.MessageReceive
		broadcaster.EXPECT().
			ToRoom("conv-a", gomock.Any()).
			Do(func(_ string, e event.Event) { received = e.(event.MessageReceive) }).
			Times(1)

		_, err := pipeline.Send(context.Background(), SendCommand{
			ConversationID: "conv-a",
			SenderID:       "alice",
			Content:        "hello",
		})

		req.NoError(err)
		req.Equal("alice", received.Sender.ID)
		req.Empty(received.Sender.Username)
	})
}

func TestDeliveryPipeline_MarkRead(t *testing.T) {
	message := domain.Message{
		ConversationID: "conv-a",
		SenderID:       "alice",
		Content:        "hello",
		ReadBy:         []string{"alice"},
		CreatedAt:      time.Now().UTC(),
	}

	t.Run("should append the reader and notify the room", func(t *testing.T) {
		req := require.New(t)
		pipeline, messages, _, _, broadcaster := newPipeline(t)

		messages.EXPECT().GetMessage("msg-1").Return(message, nil).Times(1)
		messages.EXPECT().AppendReadBy("msg-1", "bob").Return(message, nil).Times(1)
		broadcaster.EXPECT().
			ToRoom("conv-a", event.MessageReadUpdate{MessageID: "msg-1", UserID: "bob"}).
			Times(1)

		req.NoError(pipeline.MarkRead(context.Background(), "msg-1", "bob"))
	})

	t.Run("should do nothing when the reader already read it", func(t *testing.T) {
		req := require.New(t)
		pipeline, messages, _, _, broadcaster := newPipeline(t)

		messages.EXPECT().GetMessage("msg-1").Return(message, nil).Times(1)
		messages.EXPECT().AppendReadBy(gomock.Any(), gomock.Any()).Times(0)
		broadcaster.EXPECT().ToRoom(gomock.Any(), gomock.Any()).Times(0)

		req.NoError(pipeline.MarkRead(context.Background(), "msg-1", "alice"))
	})

	t.Run("should surface not found for an unknown message", func(t *testing.T) {
		req := require.New(t)
		pipeline, messages, _, _, _ := newPipeline(t)

		messages.EXPECT().GetMessage("ghost").Return(domain.Message{}, errors.ErrNotFound).Times(1)

		err := pipeline.MarkRead(context.Background(), "ghost", "bob")
		req.ErrorIs(err, errors.ErrNotFound)
	})
}
