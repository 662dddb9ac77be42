package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcher_Dispatch(t *testing.T) {
	t.Run("should route a frame to its registered handler", func(t *testing.T) {
		req := require.New(t)
		dispatcher := NewDispatcher(slog.Default())

		var got string
		dispatcher.Register("ping", func(_ context.Context, connID string, data json.RawMessage) error {
			got = connID + ":" + string(data)
			return nil
		})

		dispatcher.Dispatch(context.Background(), "conn-1", Envelope{Event: "ping", Data: json.RawMessage(`"pong"`)})

		req.Equal(`conn-1:"pong"`, got)
	})

	t.Run("should swallow unknown events", func(t *testing.T) {
		dispatcher := NewDispatcher(slog.Default())

		// Must not panic
		dispatcher.Dispatch(context.Background(), "conn-1", Envelope{Event: "nope"})
	})

	t.Run("should swallow handler errors", func(t *testing.T) {
		dispatcher := NewDispatcher(slog.Default())
		dispatcher.Register("boom", func(context.Context, string, json.RawMessage) error {
			return fmt.Errorf("handler failure")
		})

		dispatcher.Dispatch(context.Background(), "conn-1", Envelope{Event: "boom"})
	})
}
