package realtime

import "sync"

type Set map[string]struct{}

// RoomRegistry tracks which connections are subscribed to which
// conversation rooms. Both directions of the relation are indexed so that
// membership stays a mutual inverse: a connection's subscription set and a
// room's member set can never dangle.
//
// No authorization happens at this layer; the REST layer validates that an
// identity participates in a conversation before a join is issued.
type RoomRegistry struct {
	mu      sync.RWMutex
	members map[string]Set // conversationID -> connIDs
	joined  map[string]Set // connID -> conversationIDs
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		members: make(map[string]Set),
		joined:  make(map[string]Set),
	}
}

// Join subscribes a connection to a conversation room. Idempotent.
func (r *RoomRegistry) Join(connID, conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[conversationID]; !ok {
		r.members[conversationID] = make(Set)
	}
	r.members[conversationID][connID] = struct{}{}

	if _, ok := r.joined[connID]; !ok {
		r.joined[connID] = make(Set)
	}
	r.joined[connID][conversationID] = struct{}{}
}

// Leave removes a connection from a room. Safe if not a member.
func (r *RoomRegistry) Leave(connID, conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(connID, conversationID)
}

// LeaveAll removes a connection from every room it belongs to.
// Called on disconnect, before the presence registry is updated.
func (r *RoomRegistry) LeaveAll(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for conversationID := range r.joined[connID] {
		r.leaveLocked(connID, conversationID)
	}
}

// leaveLocked keeps both indexes in sync and removes empty sets so the
// registry does not leak entries for dead rooms or connections.
func (r *RoomRegistry) leaveLocked(connID, conversationID string) {
	if members, ok := r.members[conversationID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.members, conversationID)
		}
	}
	if joined, ok := r.joined[connID]; ok {
		delete(joined, conversationID)
		if len(joined) == 0 {
			delete(r.joined, connID)
		}
	}
}

// Subscribers returns the connection IDs currently subscribed to a room.
// Used by the delivery pipeline for fan-out. Returns nil for an unknown
// or empty room.
func (r *RoomRegistry) Subscribers(conversationID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.members[conversationID]
	if !ok {
		return nil
	}
	subscribers := make([]string, 0, len(members))
	for connID := range members {
		subscribers = append(subscribers, connID)
	}
	return subscribers
}

// Rooms returns the conversation IDs a connection is subscribed to.
func (r *RoomRegistry) Rooms(connID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	joined, ok := r.joined[connID]
	if !ok {
		return nil
	}
	rooms := make([]string, 0, len(joined))
	for conversationID := range joined {
		rooms = append(rooms, conversationID)
	}
	return rooms
}
