package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// HandlerFunc processes one decoded inbound frame for a connection.
type HandlerFunc func(ctx context.Context, connID string, data json.RawMessage) error

// Dispatcher routes inbound frames to their handler by event name.
// An explicit table instead of transport callbacks keeps every handler
// unit-testable without a running socket server.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	log      *slog.Logger
}

func NewDispatcher(log *slog.Logger) *Dispatcher {
	return &Dispatcher{handlers: make(map[string]HandlerFunc), log: log}
}

func (d *Dispatcher) Register(eventName string, handler HandlerFunc) {
	d.handlers[eventName] = handler
}

// Dispatch runs the handler registered for the frame's event. Unknown
// events and handler failures are logged and swallowed: a bad frame must
// never take the connection down.
func (d *Dispatcher) Dispatch(ctx context.Context, connID string, frame Envelope) {
	handler, ok := d.handlers[frame.Event]
	if !ok {
		d.log.Debug(fmt.Sprintf("No handler for event %q", frame.Event), "conn_id", connID)
		return
	}
	if err := handler(ctx, connID, frame.Data); err != nil {
		d.log.Warn("Event handling failed",
			"event", frame.Event, "conn_id", connID, "error", err)
	}
}
