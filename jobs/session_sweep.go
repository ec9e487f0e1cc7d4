package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/shipdeck/shipdeck/internal/jobs"
)

// SessionSweeper deletes expired session records.
type SessionSweeper interface {
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// SessionSweepHandler prunes the sessions table. The Redis slots
// expire on their own TTL; this keeps the relational side from
// growing unbounded.
type SessionSweepHandler struct {
	Sweeper SessionSweeper
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// Handle processes TaskSessionSweep tasks.
func (h *SessionSweepHandler) Handle(ctx context.Context, t *asynq.Task) error {
	return h.Metrics.Track("session_sweep").End(h.sweep(ctx))
}

func (h *SessionSweepHandler) sweep(ctx context.Context) error {
	swept, err := h.Sweeper.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		return err
	}
	if swept > 0 {
		h.Logger.Info("session sweep complete", slog.Int64("swept", swept))
	}
	return nil
}
