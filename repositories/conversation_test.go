package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chat-relay/domain"
	"chat-relay/errors"
)

func TestConversationRepository_Create(t *testing.T) {
	t.Run("should create a private conversation with generated identity", func(t *testing.T) {
		req := require.New(t)
		repo := NewConversationRepository(openTestDB(t))

		created, err := repo.CreateConversation(domain.Conversation{
			Participants: []string{"alice", "bob"},
		})
		req.NoError(err)
		req.NotEmpty(created.ID)
		req.False(created.CreatedAt.IsZero())

		fetched, err := repo.GetConversation(created.ID)
		req.NoError(err)
		req.Equal(created.Participants, fetched.Participants)
	})

	t.Run("should refuse an invalid conversation", func(t *testing.T) {
		req := require.New(t)
		repo := NewConversationRepository(openTestDB(t))

		// Private conversations hold exactly two participants
		_, err := repo.CreateConversation(domain.Conversation{Participants: []string{"alice"}})
		req.ErrorIs(err, errors.ErrValidation)

		// Groups need a name
		_, err = repo.CreateConversation(domain.Conversation{
			Participants: []string{"alice", "bob", "carol"},
			IsGroup:      true,
		})
		req.ErrorIs(err, errors.ErrValidation)
	})
}

func TestConversationRepository_FindPrivateConversation(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openTestDB(t))

	created, err := repo.CreateConversation(domain.Conversation{
		Participants: []string{"alice", "bob"},
	})
	req.NoError(err)

	// A group between the same users must not shadow the private one
	_, err = repo.CreateConversation(domain.Conversation{
		Participants: []string{"alice", "bob", "carol"},
		IsGroup:      true,
		GroupName:    "trio",
		GroupAdmin:   "alice",
	})
	req.NoError(err)

	found, err := repo.FindPrivateConversation("bob", "alice")
	req.NoError(err)
	req.Equal(created.ID, found.ID)

	_, err = repo.FindPrivateConversation("alice", "carol")
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestConversationRepository_GetConversationsForUser(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openTestDB(t))

	first, err := repo.CreateConversation(domain.Conversation{Participants: []string{"alice", "bob"}})
	req.NoError(err)
	second, err := repo.CreateConversation(domain.Conversation{Participants: []string{"alice", "carol"}})
	req.NoError(err)
	_, err = repo.CreateConversation(domain.Conversation{Participants: []string{"bob", "carol"}})
	req.NoError(err)

	// Activity in the first conversation moves it back to the top
	req.NoError(repo.SetLastMessage(first.ID, "msg-1"))

	conversations, err := repo.GetConversationsForUser("alice")
	req.NoError(err)
	req.Len(conversations, 2)
	req.Equal(first.ID, conversations[0].ID)
	req.Equal(second.ID, conversations[1].ID)
	req.Equal("msg-1", conversations[0].LastMessageID)
}

func TestConversationRepository_SetLastMessage(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openTestDB(t))

	req.ErrorIs(repo.SetLastMessage("ghost", "msg-1"), errors.ErrNotFound)
}
