// Package domain contains core concepts of the chat system.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// User is an account known to the server. Identity everywhere else in the
// system is the opaque User.ID string.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Avatar       string
	IsOnline     bool
	LastSeen     time.Time
	CreatedAt    time.Time
}

// Public strips credentials for anything that leaves the server.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
		IsOnline: u.IsOnline,
		LastSeen: u.LastSeen,
	}
}

type PublicUser struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar,omitempty"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen"`
}
