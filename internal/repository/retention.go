package repository

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SightingPruner deletes sightings captured before a cutoff
type SightingPruner interface {
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// RetentionWorker periodically deletes sightings older than the retention window
type RetentionWorker struct {
	pruner    SightingPruner
	logger    *slog.Logger
	retention time.Duration
	interval  time.Duration
	now       func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewRetentionWorker creates a worker. A zero interval defaults to one hour.
func NewRetentionWorker(pruner SightingPruner, logger *slog.Logger, retention, interval time.Duration) *RetentionWorker {
	if interval <= 0 {
		interval = time.Hour
	}

	return &RetentionWorker{
		pruner:    pruner,
		logger:    logger,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Start prunes once immediately, then every interval until ctx is done or Stop is called
func (w *RetentionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("sighting retention started", "retention", w.retention, "interval", w.interval)

	for {
		w.Prune(ctx)

		select {
		case <-ctx.Done():
			w.logger.Info("sighting retention stopped")
			return
		case <-w.done:
			w.logger.Info("sighting retention stopped")
			return
		case <-ticker.C:
		}
	}
}

func (w *RetentionWorker) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

// Prune runs one deletion pass and returns how many rows were removed
func (w *RetentionWorker) Prune(ctx context.Context) int64 {
	cutoff := w.now().Add(-w.retention)

	n, err := w.pruner.DeleteBefore(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("failed to prune sightings", "error", err)
		}
		return 0
	}

	if n > 0 {
		w.logger.Info("pruned sightings", "count", n, "before", cutoff)
	}
	return n
}
