package download

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/A248/bank-data/internal/infrastructure"
)

// Job is one scheduled run
type Job func(ctx context.Context) error

// Scheduler re-runs a job on a cron schedule
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	logger *slog.Logger
}

// NewScheduler validates spec, a standard five-field cron expression or a
// descriptor such as "@daily"
func NewScheduler(spec string) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return &Scheduler{
		cron:   cron.New(),
		spec:   spec,
		logger: slog.Default().With(slog.String("component", "scheduler")),
	}, nil
}

// Run executes job once, then on every tick until ctx is done. Failed runs
// are logged and retried at the next tick. A tick that fires while a run is
// still in progress, the first one included, is skipped.
func (s *Scheduler) Run(ctx context.Context, job Job) error {
	guarded := cron.NewChain(cron.SkipIfStillRunning(s.cronLogger())).Then(cron.FuncJob(func() {
		if err := job(ctx); err != nil {
			infrastructure.WithError(s.logger, err).ErrorContext(ctx, "Scheduled run failed")
		}
	}))

	if _, err := s.cron.AddJob(s.spec, guarded); err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}
	s.cron.Start()
	s.logger.InfoContext(ctx, "Schedule started", slog.String("schedule", s.spec))

	guarded.Run()

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.InfoContext(ctx, "Schedule stopped")
	return nil
}

// cronLogger reports skipped ticks through the scheduler's logger
func (s *Scheduler) cronLogger() cron.Logger {
	return cron.PrintfLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelInfo))
}
