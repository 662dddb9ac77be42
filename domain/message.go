// Package domain contains core concepts of the chat system.
// This file defines Message entities and related rules.
// Messages are immutable once created, except for the ReadBy set.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-relay/errors"
)

type FileKind string

const (
	FileImage    FileKind = "image"
	FileDocument FileKind = "document"
)

// FileRef points to an uploaded attachment.
type FileRef struct {
	URL      string   `json:"url"`
	Kind     FileKind `json:"type,omitempty"`
	Filename string   `json:"filename,omitempty"`
}

// Message represents one chat message inside a conversation.
type Message struct {
	ID             uuid.UUID
	ConversationID string
	SenderID       string
	Content        string
	File           *FileRef
	ReadBy         []string
	CreatedAt      time.Time
}

// Validate enforces the creation rule: a message carries text content,
// a file attachment, or both. Everything else is rejected before any
// persistence happens.
func (m Message) Validate() error {
	if m.ConversationID == "" || m.SenderID == "" {
		return errors.ErrValidation
	}
	if m.Content == "" && (m.File == nil || m.File.URL == "") {
		return errors.ErrValidation
	}
	return nil
}

// IsReadBy reports whether the given identity already read the message.
func (m Message) IsReadBy(userID string) bool {
	return lo.Contains(m.ReadBy, userID)
}
