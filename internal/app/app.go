package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"pricepipe/internal/alerting"
	"pricepipe/internal/config"
	"pricepipe/internal/fetcher"
	"pricepipe/internal/pipeline"
	"pricepipe/internal/scheduler"
	"pricepipe/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newRunner() *pipeline.Runner {
	spot := fetcher.NewSpot(fetcher.SpotOptions{
		URL:     a.Config.API.URL,
		Timeout: a.Config.API.RequestTimeout,
	}, a.Logger)

	store := storage.SQLiteSink{Path: a.Config.Database.Path}
	exporter := storage.CSVExporter{Path: a.Config.CSV.Path}

	return pipeline.New(spot, store, exporter, a.newNotifier(), a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	if !a.Config.Email.Enabled {
		return nil
	}
	return alerting.NewEmailNotifier(a.Config.Email, a.Logger)
}

// RunOnce executes a single pipeline pass and reports success. This is the
// one-shot entry point; the caller maps the result onto an exit code.
func (a *App) RunOnce(ctx context.Context) bool {
	return a.newRunner().Run(ctx)
}

// Schedule runs the pipeline periodically until interrupted.
func (a *App) Schedule(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(scheduler.Options{
		Spec:       a.Config.Schedule.Spec,
		MaxRetries: a.Config.Schedule.MaxRetries,
		RetryDelay: a.Config.Schedule.RetryDelay,
	}, a.Logger)

	runner := a.newRunner()

	a.Logger.Info().Msg("starting scheduled pipeline")
	err := sched.Run(ctx, runner.Run)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("scheduler terminated with error")
		return err
	}

	a.Logger.Info().Msg("scheduled pipeline stopped")
	return nil
}

func (a *App) openStore() (*storage.Store, error) {
	return storage.Open(a.Config.Database.Path)
}

// ExportOptions hold parameters for exporting stored price history.
type ExportOptions struct {
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}
