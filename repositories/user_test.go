package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-relay/domain"
	"chat-relay/errors"
)

func TestUserRepository_CreateUser(t *testing.T) {
	t.Run("should create and fetch a user back by ID and email", func(t *testing.T) {
		req := require.New(t)
		repo := NewUserRepository(openTestDB(t))

		id, err := repo.CreateUser(domain.User{
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: "hash",
		})
		req.NoError(err)
		req.NotEmpty(id)

		byID, err := repo.GetUserByID(id)
		req.NoError(err)
		req.Equal("alice", byID.Username)

		byEmail, err := repo.GetUserByEmail("alice@example.com")
		req.NoError(err)
		req.Equal(id, byEmail.ID)
	})

	t.Run("should reject a duplicate email regardless of case", func(t *testing.T) {
		req := require.New(t)
		repo := NewUserRepository(openTestDB(t))

		_, err := repo.CreateUser(domain.User{Username: "alice", Email: "Alice@Example.com"})
		req.NoError(err)

		_, err = repo.CreateUser(domain.User{Username: "impostor", Email: "alice@example.com"})
		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})

	t.Run("should return not found for unknown lookups", func(t *testing.T) {
		req := require.New(t)
		repo := NewUserRepository(openTestDB(t))

		_, err := repo.GetUserByID("ghost")
		req.ErrorIs(err, errors.ErrNotFound)

		_, err = repo.GetUserByEmail("ghost@example.com")
		req.ErrorIs(err, errors.ErrNotFound)
	})
}

func TestUserRepository_ListAndSearch(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	aliceID, err := repo.CreateUser(domain.User{Username: "alice", Email: "alice@example.com"})
	req.NoError(err)
	_, err = repo.CreateUser(domain.User{Username: "bob", Email: "bob@example.com"})
	req.NoError(err)
	_, err = repo.CreateUser(domain.User{Username: "carol", Email: "carol@example.com"})
	req.NoError(err)

	t.Run("should list everyone but the caller, sorted by username", func(t *testing.T) {
		req := require.New(t)
		users, err := repo.ListUsers(aliceID)
		req.NoError(err)
		req.Len(users, 2)
		req.Equal("bob", users[0].Username)
		req.Equal("carol", users[1].Username)
	})

	t.Run("should match username and email case-insensitively", func(t *testing.T) {
		req := require.New(t)
		users, err := repo.SearchUsers("BOB", aliceID, 10)
		req.NoError(err)
		req.Len(users, 1)
		req.Equal("bob", users[0].Username)

		users, err = repo.SearchUsers("example.com", aliceID, 10)
		req.NoError(err)
		req.Len(users, 2)
	})

	t.Run("should exclude the caller from search results", func(t *testing.T) {
		req := require.New(t)
		users, err := repo.SearchUsers("alice", aliceID, 10)
		req.NoError(err)
		req.Empty(users)
	})

	t.Run("should cap results at the limit", func(t *testing.T) {
		req := require.New(t)
		users, err := repo.SearchUsers("example.com", aliceID, 1)
		req.NoError(err)
		req.Len(users, 1)
	})
}

func TestUserRepository_SetOnlineStatus(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	id, err := repo.CreateUser(domain.User{Username: "alice", Email: "alice@example.com"})
	req.NoError(err)

	lastSeen := time.Now().UTC().Truncate(time.Millisecond)
	req.NoError(repo.SetOnlineStatus(id, true, lastSeen))

	user, err := repo.GetUserByID(id)
	req.NoError(err)
	req.True(user.IsOnline)
	req.Equal(lastSeen, user.LastSeen)

	req.NoError(repo.SetOnlineStatus(id, false, lastSeen.Add(time.Minute)))
	user, err = repo.GetUserByID(id)
	req.NoError(err)
	req.False(user.IsOnline)

	req.ErrorIs(repo.SetOnlineStatus("ghost", true, lastSeen), errors.ErrNotFound)
}
