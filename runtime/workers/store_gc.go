package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// StoreGCWorker runs Badger's value-log garbage collection on an
// interval. The message log is append-only, so reclaimable space only
// appears as value logs rotate; badger.ErrNoRewrite just means there
// was nothing to reclaim this round.
type StoreGCWorker struct {
	log        *slog.Logger
	db         *badger.DB
	gcInterval time.Duration
}

func NewStoreGCWorker(log *slog.Logger, db *badger.DB, gcInterval time.Duration) *StoreGCWorker {
	return &StoreGCWorker{log: log, db: db, gcInterval: gcInterval}
}

func (w *StoreGCWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping store GC")
			return nil
		case <-ticker.C:
			err := w.db.RunValueLogGC(0.5)
			switch err {
			case nil:
				w.log.Debug("Value log GC reclaimed space")
			case badger.ErrNoRewrite:
				// Nothing to reclaim, normal for a quiet log.
			default:
				w.log.Warn("Value log GC failed", "error", err)
			}
		}
	}
}
