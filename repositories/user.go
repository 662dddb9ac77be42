//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"chat-relay/domain"
	"chat-relay/errors"
)

type IUserRepository interface {
	CreateUser(user domain.User) (string, error)
	GetUserByEmail(email string) (domain.User, error)
	GetUserByID(id string) (domain.User, error)
	ListUsers(excludeID string) ([]domain.User, error)
	SearchUsers(query, excludeID string, limit int) ([]domain.User, error)
	SetOnlineStatus(id string, online bool, lastSeen time.Time) error
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return UserRepository{db: db}
}

// diskUser is the stored representation of a user.
type diskUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Avatar       string    `json:"avatar,omitempty"`
	IsOnline     bool      `json:"is_online"`
	LastSeen     time.Time `json:"last_seen"`
	CreatedAt    time.Time `json:"created_at"`
}

func userKey(id string) []byte     { return []byte("user:id:" + id) }
func emailKey(email string) []byte { return []byte("user:email:" + strings.ToLower(email)) }

// CreateUser persists the user under two keys: the record itself by ID and
// an email index entry used for login and uniqueness. Returns the new ID.
func (u UserRepository) CreateUser(user domain.User) (string, error) {
	newID := uuid.NewString()
	user.ID = newID
	user.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(fromDomainUser(user))
	if err != nil {
		return "", fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(emailKey(user.Email)); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(emailKey(user.Email), []byte(newID)); err != nil {
			return err
		}
		return txn.Set(userKey(newID), data)
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

func (u UserRepository) GetUserByEmail(email string) (domain.User, error) {
	var id string
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey(email))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			id = string(value)
			return nil
		})
	})
	if err != nil {
		return domain.User{}, errors.ErrNotFound
	}
	return u.GetUserByID(id)
}

func (u UserRepository) GetUserByID(id string) (domain.User, error) {
	var stored diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &stored)
		})
	})
	if err != nil {
		return domain.User{}, errors.ErrNotFound
	}
	return toDomainUser(stored), nil
}

// ListUsers returns every user except the given one, sorted by username.
func (u UserRepository) ListUsers(excludeID string) ([]domain.User, error) {
	users, err := u.scanUsers(func(stored diskUser) bool {
		return stored.ID != excludeID
	}, 0)
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}

// SearchUsers matches username or email case-insensitively, excluding the
// caller, capped at limit results.
func (u UserRepository) SearchUsers(query, excludeID string, limit int) ([]domain.User, error) {
	needle := strings.ToLower(query)
	return u.scanUsers(func(stored diskUser) bool {
		if stored.ID == excludeID {
			return false
		}
		return strings.Contains(strings.ToLower(stored.Username), needle) ||
			strings.Contains(strings.ToLower(stored.Email), needle)
	}, limit)
}

func (u UserRepository) scanUsers(match func(diskUser) bool, limit int) ([]domain.User, error) {
	var users []domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte("user:id:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(users) == limit {
				break
			}
			err := it.Item().Value(func(value []byte) error {
				var stored diskUser
				if err := json.Unmarshal(value, &stored); err != nil {
					return err
				}
				if match(stored) {
					users = append(users, toDomainUser(stored))
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return users, err
}

// SetOnlineStatus updates the REST-visible presence snapshot of a user.
// Called fire-and-forget by the presence writer worker.
func (u UserRepository) SetOnlineStatus(id string, online bool, lastSeen time.Time) error {
	return u.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err != nil {
			return errors.ErrNotFound
		}
		var stored diskUser
		if err := item.Value(func(value []byte) error {
			return json.Unmarshal(value, &stored)
		}); err != nil {
			return err
		}
		stored.IsOnline = online
		stored.LastSeen = lastSeen
		data, err := json.Marshal(stored)
		if err != nil {
			return err
		}
		return txn.Set(userKey(id), data)
	})
}

func fromDomainUser(user domain.User) diskUser {
	return diskUser{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Avatar:       user.Avatar,
		IsOnline:     user.IsOnline,
		LastSeen:     user.LastSeen,
		CreatedAt:    user.CreatedAt,
	}
}

func toDomainUser(stored diskUser) domain.User {
	return domain.User{
		ID:           stored.ID,
		Username:     stored.Username,
		Email:        stored.Email,
		PasswordHash: stored.PasswordHash,
		Avatar:       stored.Avatar,
		IsOnline:     stored.IsOnline,
		LastSeen:     stored.LastSeen,
		CreatedAt:    stored.CreatedAt,
	}
}
