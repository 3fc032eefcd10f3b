// Package scheduler triggers the ingestion pipeline on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/entryladder/entryladder/internal/pipeline"
)

// Scheduler wraps robfig/cron around the pipeline. Overlap protection
// lives in the pipeline's own run lock; a tick that lands mid-run is
// skipped, not queued.
type Scheduler struct {
	cron     *cron.Cron
	pipeline *pipeline.Pipeline
	spec     string
	logger   *slog.Logger
}

// New creates a scheduler that runs the pipeline every interval.
func New(p *pipeline.Pipeline, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		pipeline: p,
		spec:     fmt.Sprintf("@every %s", interval),
		logger:   logger,
	}
}

// Start registers the job and starts the cron loop, plus one immediate run
// so a fresh process does not wait a full interval for data. Returns
// without blocking; call Stop (or cancel ctx and call Stop) to shut down.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("registering cron job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "spec", s.spec)

	go s.runOnce(ctx)
	return nil
}

// Stop halts the cron loop. A run already in flight finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	stats, err := s.pipeline.Run(ctx)
	switch {
	case errors.Is(err, pipeline.ErrRunInProgress):
		s.logger.Info("skipped scheduled run, previous run still active")
	case err != nil:
		s.logger.Error("scheduled run failed", "error", err)
	default:
		s.logger.Info("scheduled run finished",
			"fetched", stats.Fetched,
			"filtered", stats.Filtered,
			"saved", stats.Saved,
			"duplicates", stats.Duplicates,
		)
	}
}
