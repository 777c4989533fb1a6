package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// NightlySpec runs at 00:00:00 every day (seconds field enabled).
const NightlySpec = "0 0 0 * * *"

type Job func(ctx context.Context) error

type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		logger: logger,
	}
}

// Add registers job under spec. Runs of the same job never overlap.
func (s *Scheduler) Add(ctx context.Context, name, spec string, job Job) error {
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		started := time.Now()
		if err := job(ctx); err != nil {
			s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.logger.Info("scheduled job done", zap.String("job", name), zap.Duration("took", time.Since(started)))
	}))

	if _, err := s.cron.AddJob(spec, wrapped); err != nil {
		return err
	}
	s.logger.Info("job scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Run blocks until ctx is done, then waits for running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}

// Entries reports the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
