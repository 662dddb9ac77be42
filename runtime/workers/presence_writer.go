package workers

import (
	"context"
	"log/slog"

	"chat-relay/realtime"
	"chat-relay/repositories"
)

// PresenceWriter drains presence transitions and persists the last-known
// online/offline snapshot for REST-visible profile state. The write is a
// side effect of the broadcast, never a prerequisite: the registry hands
// transitions over fire-and-forget and this worker absorbs store latency
// and failures on its own.
type PresenceWriter struct {
	log         *slog.Logger
	users       repositories.IUserRepository
	transitions <-chan realtime.Transition
}

func NewPresenceWriter(log *slog.Logger, users repositories.IUserRepository, transitions <-chan realtime.Transition) *PresenceWriter {
	return &PresenceWriter{log: log, users: users, transitions: transitions}
}

func (w *PresenceWriter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping presence writer")
			return nil
		case transition, ok := <-w.transitions:
			if !ok {
				return nil
			}
			err := w.users.SetOnlineStatus(transition.UserID, transition.IsOnline, transition.At)
			if err != nil {
				// A failed write only means a stale last-seen snapshot.
				w.log.Warn("Presence persistence failed",
					"user_id", transition.UserID, "error", err)
			}
		}
	}
}
