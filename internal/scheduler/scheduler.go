package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// RunFunc executes one pipeline pass and reports success.
type RunFunc func(ctx context.Context) bool

// Options tune the periodic adapter. MaxRetries and RetryDelay reproduce the
// orchestration policy the pipeline is deployed under: a failed run is
// retried a bounded number of times before the tick is recorded as failed.
type Options struct {
	Spec       string
	MaxRetries int
	RetryDelay time.Duration
}

// Scheduler triggers pipeline runs on a cron cadence. At most one run is
// active at a time; a tick that fires while the previous run is still going
// is skipped.
type Scheduler struct {
	opts   Options
	logger zerolog.Logger
}

// New constructs a Scheduler.
func New(opts Options, logger zerolog.Logger) *Scheduler {
	if opts.Spec == "" {
		opts.Spec = "*/15 * * * *"
	}
	return &Scheduler{opts: opts, logger: logger.With().Str("component", "scheduler").Logger()}
}

// Run blocks, invoking the run function on each cron tick until ctx is
// cancelled, then waits for any in-flight run to finish.
func (s *Scheduler) Run(ctx context.Context, run RunFunc) error {
	cronLog := cronLogger{logger: s.logger}
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLog),
		cron.Recover(cronLog),
	))

	if _, err := c.AddFunc(s.opts.Spec, func() { s.execute(ctx, run) }); err != nil {
		return err
	}

	s.logger.Info().Str("spec", s.opts.Spec).Msg("scheduler started")
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

func (s *Scheduler) execute(ctx context.Context, run RunFunc) {
	attempts := s.opts.MaxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return
		}
		if run(ctx) {
			if attempt > 1 {
				s.logger.Info().Int("attempt", attempt).Msg("scheduled run succeeded after retry")
			}
			return
		}
		if attempt < attempts {
			s.logger.Warn().
				Int("attempt", attempt).
				Dur("retry_delay", s.opts.RetryDelay).
				Msg("scheduled run failed; retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.opts.RetryDelay):
			}
		}
	}
	s.logger.Error().Int("attempts", attempts).Msg("scheduled run failed after retries")
}

// cronLogger adapts zerolog to the cron logging interface.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
