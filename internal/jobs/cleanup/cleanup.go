// Package cleanup reaps expired session rows. Expiry is already
// enforced at read time, so this job only keeps the table from growing
// without bound.
package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultInterval = 6 * time.Hour

type SessionStore interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type Job struct {
	sessions SessionStore
	interval time.Duration
	logger   *zap.Logger
}

func NewSessionCleanup(sessions SessionStore, interval time.Duration, logger *zap.Logger) *Job {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		sessions: sessions,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps once immediately and then on every tick until the context
// is cancelled. Sweep failures are logged and retried next tick.
func (j *Job) Run(ctx context.Context) {
	if j.sessions == nil {
		return
	}

	if err := j.RunOnce(ctx); err != nil {
		j.logger.Warn("session cleanup failed", zap.Error(err))
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil {
				j.logger.Warn("session cleanup failed", zap.Error(err))
			}
		}
	}
}

func (j *Job) RunOnce(ctx context.Context) error {
	deleted, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	if deleted > 0 {
		j.logger.Info("expired sessions removed", zap.Int64("deleted", deleted))
	}
	return nil
}
