package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CycleRunner executes one report cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context, c Cycle) (CycleResult, error)
}

type Options struct {
	// AlertInterval is the alert cycle period; 0 disables it.
	AlertInterval time.Duration
	// Digest is the wall-clock schedule of the digest cycle; nil disables it.
	Digest cron.Schedule
	// Location is the zone Digest is evaluated in. Defaults to time.Local.
	Location *time.Location
}

// Scheduler drives the two independent triggers: a fixed-rate alert loop
// and a cron-scheduled digest. Neither trigger waits on the other.
type Scheduler struct {
	Logger *zap.Logger
	Runner CycleRunner
	Opts   Options
}

func New(logger *zap.Logger, runner CycleRunner, opts Options) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.AlertInterval < 0 {
		opts.AlertInterval = 0
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Scheduler{Logger: logger, Runner: runner, Opts: opts}
}

// Run starts both triggers and blocks until ctx is cancelled. The alert
// cycle fires immediately, then every AlertInterval. On return, any digest
// pass still in flight has finished.
func (s *Scheduler) Run(ctx context.Context) error {
	var c *cron.Cron
	if s.Opts.Digest != nil {
		c = cron.New(
			cron.WithLocation(s.Opts.Location),
			cron.WithLogger(newCronLogger(s.Logger)),
		)
		c.Schedule(s.Opts.Digest, cron.FuncJob(func() { s.fire(ctx, CycleDigest) }))
		c.Start()
		s.Logger.Info("digest_scheduled",
			zap.Time("next", s.Opts.Digest.Next(time.Now().In(s.Opts.Location))),
			zap.String("location", s.Opts.Location.String()),
		)
	} else {
		s.Logger.Info("digest_disabled")
	}

	if s.Opts.AlertInterval > 0 {
		s.alertLoop(ctx)
	} else {
		s.Logger.Info("alert_disabled")
		<-ctx.Done()
	}

	if c != nil {
		<-c.Stop().Done()
	}
	s.Logger.Info("scheduler_stopped")
	return ctx.Err()
}

func (s *Scheduler) alertLoop(ctx context.Context) {
	t := time.NewTicker(s.Opts.AlertInterval)
	defer t.Stop()

	// immediate pass
	s.fire(ctx, CycleAlert)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.fire(ctx, CycleAlert)
		}
	}
}

// fire runs one cycle. Failures and panics are logged and never stop the
// trigger that fired.
func (s *Scheduler) fire(ctx context.Context, c Cycle) {
	defer func() {
		if rec := recover(); rec != nil {
			s.Logger.Error("cycle_panic", zap.String("cycle", string(c)), zap.Any("panic", rec))
		}
	}()
	if ctx.Err() != nil {
		return
	}

	res, err := s.Runner.RunCycle(ctx, c)
	if err != nil {
		s.Logger.Warn("cycle_delivery_failed",
			zap.String("cycle", string(c)),
			zap.Int("checked", res.Checked),
			zap.Int("down", res.Down),
			zap.Error(err),
		)
	}
}
