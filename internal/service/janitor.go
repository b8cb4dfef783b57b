package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/RRPsystem/wbctx/internal/repository"
)

// Janitor physically deletes expired context entries on an interval.
// Logical expiry is always checked by readers; this only bounds table
// growth.
type Janitor struct {
	repo     repository.ContextRepository
	interval time.Duration
	logger   *slog.Logger
}

func NewJanitor(repo repository.ContextRepository, interval time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{repo: repo, interval: interval, logger: logger}
}

func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	deleted, err := j.repo.DeleteExpired(sweepCtx, time.Now().UTC())
	if err != nil {
		j.logger.Error("expired context sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		j.logger.Info("swept expired contexts", "deleted", deleted)
	}
}
