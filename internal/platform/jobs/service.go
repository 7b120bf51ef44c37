package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const JobRetention = "history_retention"

// Pruner deletes calculations created before a cutoff.
type Pruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Service struct {
	Cron      *cron.Cron
	Pruner    Pruner
	Retention time.Duration
	Schedule  string
	now       func() time.Time
}

func New(pruner Pruner, retention time.Duration, schedule string) *Service {
	return &Service{
		Cron:      cron.New(),
		Pruner:    pruner,
		Retention: retention,
		Schedule:  schedule,
		now:       time.Now,
	}
}

// Start registers the retention job and starts the scheduler. A zero
// retention leaves the scheduler idle.
func (s *Service) Start(ctx context.Context) error {
	if s.Retention <= 0 {
		slog.Info("history retention disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(s.Schedule, func() {
		if _, err := s.RunNow(ctx); err != nil {
			slog.Warn("job run failed", "job", JobRetention, "err", err)
		}
	}); err != nil {
		return fmt.Errorf("register %s job: %w", JobRetention, err)
	}
	s.Cron.Start()
	slog.Info("scheduler started", "job", JobRetention, "schedule", s.Schedule, "retention", s.Retention.String())
	return nil
}

// Stop waits for a running job to finish or ctx to end.
func (s *Service) Stop(ctx context.Context) {
	done := s.Cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RunNow deletes everything older than the retention period.
func (s *Service) RunNow(ctx context.Context) (int64, error) {
	if s.Retention <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.Retention)
	started := time.Now()
	deleted, err := s.Pruner.PruneBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	slog.Info("job run completed",
		"job", JobRetention,
		"deleted", deleted,
		"cutoff", cutoff.UTC().Format(time.RFC3339),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return deleted, nil
}
