package realtime

import (
	"sync"

	"chat-relay/domain/event"
)

// Sink is one live client connection's outbound channel. Deliver must
// never block; it reports false when the event had to be dropped (dead or
// saturated connection), consistent with at-most-once delivery to
// currently-live connections.
type Sink interface {
	Deliver(e event.Event) bool
}

// ConnTable resolves connection IDs to their sinks. It is the only place
// holding transport handles; registries above it deal in plain IDs.
type ConnTable struct {
	mu    sync.RWMutex
	sinks map[string]Sink
}

func NewConnTable() *ConnTable {
	return &ConnTable{sinks: make(map[string]Sink)}
}

func (t *ConnTable) Attach(connID string, sink Sink) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sinks[connID] = sink
}

// Detach drops the sink. After Detach returns, no further event can be
// delivered to the connection.
func (t *ConnTable) Detach(connID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sinks, connID)
}

func (t *ConnTable) Get(connID string) (Sink, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sink, ok := t.sinks[connID]
	return sink, ok
}

// Snapshot returns the current connID -> sink view for a broadcast pass.
func (t *ConnTable) Snapshot() map[string]Sink {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snapshot := make(map[string]Sink, len(t.sinks))
	for connID, sink := range t.sinks {
		snapshot[connID] = sink
	}
	return snapshot
}

func (t *ConnTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sinks)
}
