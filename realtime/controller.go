package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"chat-relay/domain/event"
	"chat-relay/errors"
)

// Controller owns the lifecycle of every client connection: attach on
// transport connect, identity announcement, room membership, event
// dispatch, and teardown on disconnect. It is also the Broadcaster the
// delivery pipeline and typing coordinator emit through.
type Controller struct {
	log        *slog.Logger
	presence   *PresenceRegistry
	rooms      *RoomRegistry
	conns      *ConnTable
	typing     *TypingCoordinator
	delivery   *DeliveryPipeline
	dispatcher *Dispatcher
}

func NewController(
	log *slog.Logger,
	presence *PresenceRegistry,
	rooms *RoomRegistry,
	conns *ConnTable,
) *Controller {
	c := &Controller{
		log:      log,
		presence: presence,
		rooms:    rooms,
		conns:    conns,
	}
	c.typing = NewTypingCoordinator(c)
	c.dispatcher = NewDispatcher(log)
	c.dispatcher.Register(EventUserOnline, c.handleUserOnline)
	c.dispatcher.Register(EventConversationJoin, c.handleJoin)
	c.dispatcher.Register(EventConversationLeave, c.handleLeave)
	c.dispatcher.Register(EventMessageSend, c.handleSend)
	c.dispatcher.Register(EventTypingStart, c.handleTypingStart)
	c.dispatcher.Register(EventTypingStop, c.handleTypingStop)
	c.dispatcher.Register(EventMessageRead, c.handleRead)
	return c
}

// SetDelivery wires the delivery pipeline. Separate from the constructor
// because the pipeline itself broadcasts through the controller.
func (c *Controller) SetDelivery(delivery *DeliveryPipeline) {
	c.delivery = delivery
}

// Connect registers a freshly accepted transport connection. The
// connection carries no identity until it announces user:online.
func (c *Controller) Connect(connID string, sink Sink) {
	c.conns.Attach(connID, sink)
	c.log.Info("Client connected", "conn_id", connID)
}

// Disconnect tears a connection down: the sink is detached first so no
// later event can reach it, then room membership is cleared, then presence
// is released. A reconnecting client comes back as a brand-new connection
// and re-announces its state itself.
func (c *Controller) Disconnect(connID string) {
	c.conns.Detach(connID)
	c.rooms.LeaveAll(connID)
	userID, wentOffline := c.presence.Unregister(connID)
	if wentOffline {
		c.ToAll(event.UserStatus{UserID: userID, IsOnline: false})
		c.log.Info("User went offline", "user_id", userID)
	}
	c.log.Info("Client disconnected", "conn_id", connID)
}

// HandleFrame feeds one raw inbound frame into the dispatch table.
func (c *Controller) HandleFrame(ctx context.Context, connID string, raw []byte) {
	var frame Envelope
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.log.Warn("Malformed frame dropped", "conn_id", connID, "error", err)
		return
	}
	c.dispatcher.Dispatch(ctx, connID, frame)
}

// OnlineIdentities exposes the live presence view for the REST layer.
func (c *Controller) OnlineIdentities() []string {
	return c.presence.OnlineIdentities()
}

// IsOnline reports whether an identity currently holds a live connection.
func (c *Controller) IsOnline(userID string) bool {
	return c.presence.IsOnline(userID)
}

// ConnectionCount returns the number of attached transport connections.
func (c *Controller) ConnectionCount() int {
	return c.conns.Len()
}

// ===== inbound handlers =====

func (c *Controller) handleUserOnline(_ context.Context, connID string, data json.RawMessage) error {
	userID, err := decodeString(data)
	if err != nil {
		return fmt.Errorf("user:online payload: %w", err)
	}
	if userID == "" {
		return fmt.Errorf("user:online payload: %w", errors.ErrValidation)
	}
	if wentOnline := c.presence.RegisterOnline(connID, userID); wentOnline {
		c.ToAll(event.UserStatus{UserID: userID, IsOnline: true})
		c.log.Info("User came online", "user_id", userID)
	}
	return nil
}

func (c *Controller) handleJoin(_ context.Context, connID string, data json.RawMessage) error {
	conversationID, err := decodeString(data)
	if err != nil {
		return fmt.Errorf("conversation:join payload: %w", err)
	}
	if conversationID == "" {
		return fmt.Errorf("conversation:join payload: %w", errors.ErrValidation)
	}
	c.rooms.Join(connID, conversationID)
	c.log.Debug("Joined conversation", "conn_id", connID, "conversation_id", conversationID)
	return nil
}

func (c *Controller) handleLeave(_ context.Context, connID string, data json.RawMessage) error {
	conversationID, err := decodeString(data)
	if err != nil {
		return fmt.Errorf("conversation:leave payload: %w", err)
	}
	if conversationID == "" {
		return fmt.Errorf("conversation:leave payload: %w", errors.ErrValidation)
	}
	c.rooms.Leave(connID, conversationID)
	c.log.Debug("Left conversation", "conn_id", connID, "conversation_id", conversationID)
	return nil
}

func (c *Controller) handleSend(ctx context.Context, connID string, data json.RawMessage) error {
	payload, err := decodePayload[SendPayload](data)
	if err != nil {
		return fmt.Errorf("message:send payload: %w", err)
	}
	_, err = c.delivery.Send(ctx, SendCommand{
		ConversationID: payload.ConversationID,
		SenderID:       payload.SenderID,
		Content:        payload.Content,
		File:           payload.File,
	})
	if err != nil {
		// Errors go back to the originating connection only.
		c.ToConn(connID, event.MessageError{Message: "Failed to send message"})
		return err
	}
	return nil
}

func (c *Controller) handleTypingStart(_ context.Context, connID string, data json.RawMessage) error {
	payload, err := decodePayload[TypingPayload](data)
	if err != nil {
		return fmt.Errorf("typing:start payload: %w", err)
	}
	c.typing.Start(connID, payload.ConversationID, payload.UserID, payload.Username)
	return nil
}

func (c *Controller) handleTypingStop(_ context.Context, connID string, data json.RawMessage) error {
	payload, err := decodePayload[TypingPayload](data)
	if err != nil {
		return fmt.Errorf("typing:stop payload: %w", err)
	}
	c.typing.Stop(connID, payload.ConversationID, payload.UserID)
	return nil
}

func (c *Controller) handleRead(ctx context.Context, connID string, data json.RawMessage) error {
	payload, err := decodePayload[ReadPayload](data)
	if err != nil {
		return fmt.Errorf("message:read payload: %w", err)
	}
	return c.delivery.MarkRead(ctx, payload.MessageID, payload.UserID)
}

// ===== Broadcaster =====

func (c *Controller) ToAll(e event.Event) {
	for connID, sink := range c.conns.Snapshot() {
		c.deliver(connID, sink, e)
	}
}

func (c *Controller) ToRoom(conversationID string, e event.Event) {
	for _, connID := range c.rooms.Subscribers(conversationID) {
		if sink, ok := c.conns.Get(connID); ok {
			c.deliver(connID, sink, e)
		}
	}
}

func (c *Controller) ToRoomExcept(conversationID, exceptConnID string, e event.Event) {
	for _, connID := range c.rooms.Subscribers(conversationID) {
		if connID == exceptConnID {
			continue
		}
		if sink, ok := c.conns.Get(connID); ok {
			c.deliver(connID, sink, e)
		}
	}
}

func (c *Controller) ToConn(connID string, e event.Event) {
	if sink, ok := c.conns.Get(connID); ok {
		c.deliver(connID, sink, e)
	}
}

func (c *Controller) deliver(connID string, sink Sink, e event.Event) {
	if !sink.Deliver(e) {
		c.log.Debug("Event dropped, connection saturated or gone",
			"conn_id", connID, "event", e.Name())
	}
}
