package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/realtime"
)

type sendMessageRequest struct {
	ConversationID string          `json:"conversationId" binding:"required"`
	Content        string          `json:"content"`
	File           *domain.FileRef `json:"file"`
}

// sendMessage is the REST path into the same delivery pipeline the socket
// uses: identical validation, persistence, ordering and fan-out.
func (s *Server) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Conversation ID is required"})
		return
	}
	userID := currentUserID(c)

	if !s.isParticipant(c, req.ConversationID, userID) {
		return
	}

	message, err := s.delivery.Send(c.Request.Context(), realtime.SendCommand{
		ConversationID: req.ConversationID,
		SenderID:       userID,
		Content:        req.Content,
		File:           req.File,
	})
	if err != nil {
		s.fail(c, err, "Error sending message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": toMessageResponse(message)})
}

// getMessages pages through a conversation's history, oldest first within
// the page, with an opaque cursor for the previous page. This fetch is the
// backfill path for clients that reconnect.
func (s *Server) getMessages(c *gin.Context) {
	conversationID := c.Param("conversationId")
	userID := currentUserID(c)

	if !s.isParticipant(c, conversationID, userID) {
		return
	}

	var cursor *string
	if raw := c.Query("cursor"); raw != "" {
		cursor = &raw
	}

	messages, nextCursor, err := s.messages.GetMessages(conversationID, cursor)
	if err != nil {
		s.fail(c, err, "Error fetching messages")
		return
	}

	// The repository iterates newest first; clients render oldest first.
	response := lo.Map(lo.Reverse(messages), func(message domain.Message, _ int) messageResponse {
		return toMessageResponse(message)
	})

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": response,
		"cursor":   nextCursor,
	})
}

// isParticipant enforces the conversation ACL at the REST boundary, the
// one layer allowed to hit the store for authorization. It writes the
// error response itself and reports whether the request may proceed.
func (s *Server) isParticipant(c *gin.Context, conversationID, userID string) bool {
	conversation, err := s.conversations.GetConversation(conversationID)
	if err != nil {
		s.fail(c, err, "Conversation not found")
		return false
	}
	if !conversation.HasParticipant(userID) {
		s.fail(c, errors.ErrNotParticipant, "You are not a participant in this conversation")
		return false
	}
	return true
}

type messageResponse struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversationId"`
	SenderID       string          `json:"senderId"`
	Content        string          `json:"content,omitempty"`
	File           *domain.FileRef `json:"file,omitempty"`
	ReadBy         []string        `json:"readBy"`
	CreatedAt      string          `json:"createdAt"`
}

func toMessageResponse(message domain.Message) messageResponse {
	return messageResponse{
		ID:             message.ID.String(),
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Content:        message.Content,
		File:           message.File,
		ReadBy:         message.ReadBy,
		CreatedAt:      message.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}
