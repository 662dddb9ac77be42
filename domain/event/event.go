// Package event defines the server→client events of the socket protocol.
// Each type maps one-to-one to a wire event name.
package event

import (
	"time"

	"chat-relay/domain"
)

// Event is anything the server pushes to connected clients.
type Event interface {
	Name() string
}

// UserStatus announces a presence transition of one identity.
// Emitted only when the identity's live-connection count crosses 0.
type UserStatus struct {
	UserID   string `json:"userId"`
	IsOnline bool   `json:"isOnline"`
}

func (UserStatus) Name() string { return "user:status" }

// Sender carries the display fields resolved for a message author.
type Sender struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// MessageReceive delivers a fully populated message to room subscribers,
// including the sender's own connections.
type MessageReceive struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversationId"`
	Sender         Sender          `json:"sender"`
	Content        string          `json:"content,omitempty"`
	File           *domain.FileRef `json:"file,omitempty"`
	ReadBy         []string        `json:"readBy"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (MessageReceive) Name() string { return "message:receive" }

// TypingDisplay signals a typing indicator change to everyone in the
// conversation except the originator.
type TypingDisplay struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	Username       string `json:"username,omitempty"`
	IsTyping       bool   `json:"isTyping"`
}

func (TypingDisplay) Name() string { return "typing:display" }

// MessageReadUpdate notifies room subscribers that an identity read a message.
type MessageReadUpdate struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
}

func (MessageReadUpdate) Name() string { return "message:read:update" }

// MessageError is sent to the originating connection only, never broadcast.
type MessageError struct {
	Message string `json:"message"`
}

func (MessageError) Name() string { return "message:error" }
