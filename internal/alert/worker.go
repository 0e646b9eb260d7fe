package alert

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/recognition"
)

const defaultQueueSize = 64

// Worker evaluates matches off the recognition path. Enqueue never blocks;
// a full queue drops the match.
type Worker struct {
	engine   *Engine
	notifier Notifier
	logger   *slog.Logger
	queue    chan Match
	dropped  atomic.Int64
	sent     atomic.Int64
	timeout  time.Duration
}

func NewWorker(engine *Engine, notifier Notifier, logger *slog.Logger, queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	return &Worker{
		engine:   engine,
		notifier: notifier,
		logger:   logger,
		queue:    make(chan Match, queueSize),
		timeout:  30 * time.Second,
	}
}

// Enqueue submits a match and reports whether it was accepted
func (w *Worker) Enqueue(m Match) bool {
	select {
	case w.queue <- m:
		return true
	default:
		w.dropped.Add(1)
		w.logger.Warn("alert queue full, dropping match",
			"camera_id", m.CameraID,
			"faces", len(m.Faces),
		)
		return false
	}
}

// HandleEvent is a recognition sink; only match events are queued
func (w *Worker) HandleEvent(e recognition.Event) {
	if e.Type != recognition.EventMatchFound {
		return
	}
	w.Enqueue(Match{CameraID: e.CameraID, Faces: e.Faces, At: e.Timestamp})
}

// Run consumes the queue until ctx is done. Expired cooldowns are pruned periodically.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	w.logger.Info("alert worker started", "queue_size", cap(w.queue))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("alert worker stopped")
			return
		case <-ticker.C:
			if n := w.engine.Prune(); n > 0 {
				w.logger.Debug("pruned alert cooldowns", "count", n)
			}
		case m := <-w.queue:
			w.process(ctx, m)
		}
	}
}

func (w *Worker) process(ctx context.Context, m Match) {
	alerts := w.engine.Evaluate(m)
	if len(alerts) == 0 {
		w.logger.Debug("match below threshold or in cooldown", "camera_id", m.CameraID)
		return
	}

	for _, a := range alerts {
		w.logger.Info("alert triggered",
			"camera_id", a.CameraID,
			"person_name", a.PersonName,
			"similarity", a.Similarity,
		)

		sendCtx, cancel := context.WithTimeout(ctx, w.timeout)
		err := w.notifier.Notify(sendCtx, NewPayload(a))
		cancel()
		if err != nil {
			w.logger.Error("failed to send notification",
				"camera_id", a.CameraID,
				"error", err,
			)
			continue
		}
		w.sent.Add(1)
	}
}

// Dropped returns how many matches were discarded because the queue was full
func (w *Worker) Dropped() int64 {
	return w.dropped.Load()
}

// Sent returns how many alerts were delivered
func (w *Worker) Sent() int64 {
	return w.sent.Load()
}
