package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	goerrors "errors"

	"chat-relay/domain"
	"chat-relay/errors"
)

type privateConversationRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
}

type groupConversationRequest struct {
	ParticipantIDs []string `json:"participantIds" binding:"required,min=1"`
	GroupName      string   `json:"groupName" binding:"required"`
}

// createPrivateConversation returns the existing 1:1 conversation between
// the two users when there is one, otherwise creates it.
func (s *Server) createPrivateConversation(c *gin.Context) {
	var req privateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Participant ID is required"})
		return
	}
	userID := currentUserID(c)

	existing, err := s.conversations.FindPrivateConversation(userID, req.ParticipantID)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "conversation": toConversationResponse(existing)})
		return
	}
	if !goerrors.Is(err, errors.ErrNotFound) {
		s.fail(c, err, "Error creating conversation")
		return
	}

	conversation, err := s.conversations.CreateConversation(domain.Conversation{
		Participants: []string{userID, req.ParticipantID},
		IsGroup:      false,
	})
	if err != nil {
		s.fail(c, err, "Error creating conversation")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "conversation": toConversationResponse(conversation)})
}

func (s *Server) createGroupConversation(c *gin.Context) {
	var req groupConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Group name and at least one participant are required"})
		return
	}
	userID := currentUserID(c)

	conversation, err := s.conversations.CreateConversation(domain.Conversation{
		Participants: append([]string{userID}, req.ParticipantIDs...),
		IsGroup:      true,
		GroupName:    req.GroupName,
		GroupAdmin:   userID,
	})
	if err != nil {
		s.fail(c, err, "Error creating group conversation")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "conversation": toConversationResponse(conversation)})
}

func (s *Server) listConversations(c *gin.Context) {
	conversations, err := s.conversations.GetConversationsForUser(currentUserID(c))
	if err != nil {
		s.fail(c, err, "Error fetching conversations")
		return
	}
	response := make([]conversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		response = append(response, toConversationResponse(conversation))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "conversations": response})
}

type conversationResponse struct {
	ID            string   `json:"id"`
	Participants  []string `json:"participants"`
	IsGroup       bool     `json:"isGroup"`
	GroupName     string   `json:"groupName,omitempty"`
	GroupAdmin    string   `json:"groupAdmin,omitempty"`
	LastMessageID string   `json:"lastMessageId,omitempty"`
	UpdatedAt     string   `json:"updatedAt"`
}

func toConversationResponse(conversation domain.Conversation) conversationResponse {
	return conversationResponse{
		ID:            conversation.ID,
		Participants:  conversation.Participants,
		IsGroup:       conversation.IsGroup,
		GroupName:     conversation.GroupName,
		GroupAdmin:    conversation.GroupAdmin,
		LastMessageID: conversation.LastMessageID,
		UpdatedAt:     conversation.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}
