// Package domain contains core concepts of the chat system.
// This file defines Conversation entities and their participant rules.
package domain

import (
	"time"

	"github.com/samber/lo"

	"chat-relay/errors"
)

// Conversation groups participants exchanging messages. A private
// conversation has exactly two participants; a group has at least two
// plus a name and an admin.
type Conversation struct {
	ID            string
	Participants  []string
	IsGroup       bool
	GroupName     string
	GroupAdmin    string
	LastMessageID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (c Conversation) Validate() error {
	if !c.IsGroup && len(c.Participants) != 2 {
		return errors.ErrValidation
	}
	if c.IsGroup {
		if len(c.Participants) < 2 || c.GroupName == "" {
			return errors.ErrValidation
		}
	}
	return nil
}

// HasParticipant reports whether the identity takes part in the
// conversation. Authorization checks in the REST layer rely on this
// before any room join or history fetch is allowed.
func (c Conversation) HasParticipant(userID string) bool {
	return lo.Contains(c.Participants, userID)
}
