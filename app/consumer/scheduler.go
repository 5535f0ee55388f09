package consumer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rssradar/app/database"
)

// Scheduler repeats consumption cycles at a fixed interval. Cycles
// never overlap: the next one starts only after the previous cycle
// and its retention cleanup have finished.
type Scheduler struct {
	consumer    *Consumer
	items       database.ItemRepository
	clock       Clock
	interval    time.Duration
	maxRuns     int // 0 = unbounded
	cleanupDays int // 0 = cleanup disabled
}

func NewScheduler(consumer *Consumer, items database.ItemRepository, clock Clock,
	interval time.Duration, maxRuns, cleanupDays int) *Scheduler {
	return &Scheduler{
		consumer:    consumer,
		items:       items,
		clock:       clock,
		interval:    interval,
		maxRuns:     maxRuns,
		cleanupDays: cleanupDays,
	}
}

// Run loops until the context is cancelled or the run bound is
// reached. A store failure aborts the current cycle but not the
// schedule; the next cycle starts after the regular interval.
func (s *Scheduler) Run(ctx context.Context) error {
	runCount := 0

	for {
		runCount++
		slog.Info("Starting consumption cycle", "run", runCount)

		_, err := s.consumer.RunCycle(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}

			var storeErr *StoreError
			if errors.As(err, &storeErr) {
				slog.Error("Cycle aborted on store failure, waiting for next interval",
					"run", runCount, "error", storeErr)
			} else {
				slog.Error("Cycle failed", "run", runCount, "error", err)
			}
		}

		s.cleanup()

		if s.maxRuns > 0 && runCount >= s.maxRuns {
			slog.Info("Run bound reached, stopping scheduler", "runs", runCount)
			return nil
		}

		if err := s.clock.Sleep(ctx, s.interval); err != nil {
			return err
		}
	}
}

func (s *Scheduler) cleanup() {
	if s.cleanupDays <= 0 {
		return
	}

	removed, err := s.items.CleanupOlderThan(s.cleanupDays)
	if err != nil {
		slog.Error("Retention cleanup failed", "error", err)
		return
	}

	if removed > 0 {
		slog.Info("Retention cleanup completed", "removed", removed, "older_than_days", s.cleanupDays)
	}
}
