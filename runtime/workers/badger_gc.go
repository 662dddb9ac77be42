package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const gcDiscardRatio = 0.5

// BadgerGC periodically reclaims space in the value log. Badger only
// garbage-collects when asked; without this ticker the store grows
// unbounded under message churn.
type BadgerGC struct {
	log      *slog.Logger
	db       *badger.DB
	interval time.Duration
}

func NewBadgerGC(log *slog.Logger, db *badger.DB, interval time.Duration) *BadgerGC {
	return &BadgerGC{log: log, db: db, interval: interval}
}

func (w *BadgerGC) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping badger GC")
			return nil
		case <-ticker.C:
			// RunValueLogGC returns ErrNoRewrite when there is nothing
			// to collect; that is the common, quiet case.
			if err := w.db.RunValueLogGC(gcDiscardRatio); err != nil && err != badger.ErrNoRewrite {
				w.log.Warn("Badger value log GC failed", "error", err)
			}
		}
	}
}
