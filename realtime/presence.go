package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Transition records one identity crossing the online/offline boundary.
// Consumed by the presence writer worker to persist last-seen state.
type Transition struct {
	UserID   string
	IsOnline bool
	At       time.Time
}

// PresenceRegistry tracks which identities currently hold at least one
// live connection. An identity is online iff its connection count is >= 1;
// status transitions are reported only when that count crosses zero.
//
// PresenceRegistry is safe for concurrent use by multiple goroutines.
type PresenceRegistry struct {
	mu          sync.RWMutex
	identities  map[string]string      // connID -> userID
	connections map[string]Set         // userID -> connIDs
	transitions chan<- Transition      // fire-and-forget persistence feed
	log         *slog.Logger
	clock       func() time.Time
}

func NewPresenceRegistry(log *slog.Logger, transitions chan<- Transition) *PresenceRegistry {
	return &PresenceRegistry{
		identities:  make(map[string]string),
		connections: make(map[string]Set),
		transitions: transitions,
		log:         log,
		clock:       time.Now,
	}
}

// RegisterOnline associates a connection with an identity and reports
// whether this was the identity's first live connection. Re-registering
// the same connection with the same identity is a no-op.
func (p *PresenceRegistry) RegisterOnline(connID, userID string) (wentOnline bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if current, ok := p.identities[connID]; ok {
		if current == userID {
			return false
		}
		// The connection switched identity: release the old binding first.
		if offline := p.removeLocked(connID, current); offline {
			p.publish(current, false)
		}
	}

	p.identities[connID] = userID
	if _, ok := p.connections[userID]; !ok {
		p.connections[userID] = make(Set)
	}
	wentOnline = len(p.connections[userID]) == 0
	p.connections[userID][connID] = struct{}{}

	if wentOnline {
		p.publish(userID, true)
	}
	return wentOnline
}

// Unregister removes a connection. It reports the owning identity and
// whether that identity just lost its last live connection. Unregistering
// an unknown connection is a silent no-op.
func (p *PresenceRegistry) Unregister(connID string) (userID string, wentOffline bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.identities[connID]
	if !ok {
		return "", false
	}
	wentOffline = p.removeLocked(connID, userID)
	if wentOffline {
		p.publish(userID, false)
	}
	return userID, wentOffline
}

func (p *PresenceRegistry) removeLocked(connID, userID string) (wentOffline bool) {
	delete(p.identities, connID)
	if conns, ok := p.connections[userID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(p.connections, userID)
			return true
		}
	}
	return false
}

// publish forwards a transition to the persistence feed without ever
// blocking the caller; a full buffer only costs a stale last-seen row.
func (p *PresenceRegistry) publish(userID string, online bool) {
	if p.transitions == nil {
		return
	}
	select {
	case p.transitions <- Transition{UserID: userID, IsOnline: online, At: p.clock()}:
	default:
		p.log.Warn("Presence transition dropped, buffer full", "user_id", userID)
	}
}

func (p *PresenceRegistry) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.connections[userID]) > 0
}

// OnlineIdentities returns every identity with at least one live connection.
func (p *PresenceRegistry) OnlineIdentities() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return lo.Keys(p.connections)
}

// ConnectionCount returns the number of live connections of one identity.
func (p *PresenceRegistry) ConnectionCount(userID string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.connections[userID])
}
