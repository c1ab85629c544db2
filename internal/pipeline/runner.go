// Package pipeline executes one fetch→transform→persist run under a single
// failure boundary. The two sinks are written in sequence without a shared
// transaction: a row committed to the database stays committed even when the
// CSV append that follows it fails. Such partial writes surface as a failed
// run but are never rolled back.
package pipeline

import (
	"context"
	"runtime/debug"

	"github.com/rs/zerolog"

	"pricepipe/internal/alerting"
	"pricepipe/internal/fetcher"
	"pricepipe/internal/model"
	"pricepipe/internal/transform"
)

// Stage labels used in logs and alert events. The transform step has no
// label: it is a pure mapping with no failure mode.
const (
	StageFetch  = "fetch"
	StageStore  = "store"
	StageExport = "export"
)

// PriceStore is the relational sink consumed by the runner.
type PriceStore interface {
	AppendPrice(ctx context.Context, row model.Row) error
}

// RowExporter is the flat-file sink consumed by the runner.
type RowExporter interface {
	Append(row model.Row) error
}

// Runner drives a single pipeline execution. Each stage runs at most once;
// the first error skips every remaining stage, including the other sink.
type Runner struct {
	fetcher  fetcher.PriceFetcher
	store    PriceStore
	exporter RowExporter
	notifier alerting.Notifier
	logger   zerolog.Logger
}

// New constructs a Runner. A nil notifier disables alert dispatch entirely.
func New(f fetcher.PriceFetcher, store PriceStore, exporter RowExporter, notifier alerting.Notifier, logger zerolog.Logger) *Runner {
	return &Runner{
		fetcher:  f,
		store:    store,
		exporter: exporter,
		notifier: notifier,
		logger:   logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes one pipeline pass and reports success. It never returns an
// error itself; every stage failure is logged, dispatched as a best-effort
// alert, and translated into the boolean result. The caller decides how a
// false maps onto exit codes or scheduler failures.
func (r *Runner) Run(ctx context.Context) bool {
	record, err := r.fetcher.FetchPrice(ctx)
	if err != nil {
		return r.fail(ctx, StageFetch, err)
	}

	row := transform.ToRow(record)

	if err := r.store.AppendPrice(ctx, row); err != nil {
		return r.fail(ctx, StageStore, err)
	}

	if err := r.exporter.Append(row); err != nil {
		return r.fail(ctx, StageExport, err)
	}

	r.logger.Info().
		Str("timestamp", row.Timestamp).
		Float64("price", row.Price).
		Msg("pipeline run succeeded")
	return true
}

func (r *Runner) fail(ctx context.Context, stage string, err error) bool {
	trace := string(debug.Stack())

	r.logger.Error().
		Err(err).
		Str("stage", stage).
		Msg("pipeline run failed")

	if r.notifier != nil {
		event := alerting.Event{Stage: stage, Err: err, Trace: trace}
		if notifyErr := r.notifier.Notify(ctx, event); notifyErr != nil {
			// Alert delivery failure must not replace the run's outcome.
			r.logger.Error().Err(notifyErr).Str("stage", stage).Msg("failed to dispatch alert")
		}
	}

	return false
}
