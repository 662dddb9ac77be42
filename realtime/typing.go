package realtime

import "chat-relay/domain/event"

// TypingCoordinator broadcasts ephemeral typing indicators to a
// conversation's subscribers, excluding the originating connection.
// It keeps no state: the client is responsible for emitting stop after
// its inactivity window, so a lost stop only costs a bounded stale
// indicator on receiving UIs.
type TypingCoordinator struct {
	broadcaster Broadcaster
}

func NewTypingCoordinator(broadcaster Broadcaster) *TypingCoordinator {
	return &TypingCoordinator{broadcaster: broadcaster}
}

func (t *TypingCoordinator) Start(originConnID, conversationID, userID, username string) {
	t.broadcaster.ToRoomExcept(conversationID, originConnID, event.TypingDisplay{
		ConversationID: conversationID,
		UserID:         userID,
		Username:       username,
		IsTyping:       true,
	})
}

func (t *TypingCoordinator) Stop(originConnID, conversationID, userID string) {
	t.broadcaster.ToRoomExcept(conversationID, originConnID, event.TypingDisplay{
		ConversationID: conversationID,
		UserID:         userID,
		IsTyping:       false,
	})
}
