// Package realtime implements the live messaging core: presence tracking,
// conversation rooms, typing indicators and the message delivery pipeline.
// It is transport-agnostic; the websocket layer feeds it decoded frames.
package realtime

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"chat-relay/domain"
)

// Client→server event names.
const (
	EventUserOnline        = "user:online"
	EventConversationJoin  = "conversation:join"
	EventConversationLeave = "conversation:leave"
	EventMessageSend       = "message:send"
	EventTypingStart       = "typing:start"
	EventTypingStop        = "typing:stop"
	EventMessageRead       = "message:read"
)

// Envelope is the wire frame in both directions: an event name plus its
// JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

var validate = validator.New()

// SendPayload is the message:send payload.
type SendPayload struct {
	ConversationID string          `json:"conversationId" validate:"required"`
	SenderID       string          `json:"senderId" validate:"required"`
	Content        string          `json:"content"`
	File           *domain.FileRef `json:"file"`
}

// TypingPayload covers typing:start and typing:stop. Username is only
// present on start; the stop broadcast omits it.
type TypingPayload struct {
	ConversationID string `json:"conversationId" validate:"required"`
	UserID         string `json:"userId" validate:"required"`
	Username       string `json:"username"`
}

// ReadPayload is the message:read payload.
type ReadPayload struct {
	MessageID string `json:"messageId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
}

// decodePayload unmarshals and validates an inbound payload. A failure
// means the frame is malformed and must be dropped, never crash the
// connection.
func decodePayload[T any](data json.RawMessage) (T, error) {
	var payload T
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, err
	}
	if err := validate.Struct(payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// decodeString unmarshals payloads that are a bare JSON string
// (user:online, conversation:join, conversation:leave).
func decodeString(data json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	return s, nil
}
