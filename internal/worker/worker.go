// Package worker runs the background reconciler that brings stale or missing
// daily logs back in line with their meal and exercise logs.
package worker

import (
	"context"
	"log/slog"
	"time"

	"fittrack/internal/metrics"
)

const defaultBatchSize = 50

// DriftSource lists dates whose daily log no longer matches its inputs
type DriftSource interface {
	ListDriftedDates(ctx context.Context, limit int) ([]string, error)
}

// Recalculator recomputes the daily log for a date
type Recalculator interface {
	Recalculate(ctx context.Context, date string) (string, error)
}

// Worker periodically recalculates drifted dates. Writers never recompute on
// their own, so without it a daily log stays stale until someone asks for a
// recalculation.
type Worker struct {
	source       DriftSource
	recalc       Recalculator
	logger       *slog.Logger
	pollInterval time.Duration
	batchSize    int
}

// NewWorker creates a reconciler polling every interval
func NewWorker(source DriftSource, recalc Recalculator, interval time.Duration) *Worker {
	return &Worker{
		source:       source,
		recalc:       recalc,
		logger:       slog.Default(),
		pollInterval: interval,
		batchSize:    defaultBatchSize,
	}
}

// Start runs the reconcile loop until ctx is cancelled
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting reconciler", "interval", w.pollInterval.String())
	metrics.ReconcilerActive.Set(1)
	defer metrics.ReconcilerActive.Set(0)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping reconciler")
			return ctx.Err()
		default:
			n, err := w.RunOnce(ctx)
			if err != nil {
				w.logger.Error("Reconcile cycle failed", "error", err)
			}

			// a full batch means there is probably more to do
			if err == nil && n == w.batchSize {
				continue
			}

			select {
			case <-ctx.Done():
			case <-time.After(w.pollInterval):
			}
		}
	}
}

// RunOnce recalculates one batch of drifted dates and returns how many were
// recomputed. A failure on one date does not stop the others.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	dates, err := w.source.ListDriftedDates(ctx, w.batchSize)
	if err != nil {
		metrics.ReconcilerCyclesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return 0, err
	}

	if len(dates) == 0 {
		metrics.ReconcilerCyclesTotal.WithLabelValues(metrics.OutcomeIdle).Inc()
		return 0, nil
	}

	done := 0
	for _, date := range dates {
		if _, err := w.recalc.Recalculate(ctx, date); err != nil {
			w.logger.Error("Failed to reconcile date", "date", date, "error", err)
			continue
		}
		done++
	}

	metrics.ReconciledDatesTotal.Add(float64(done))
	metrics.ReconcilerCyclesTotal.WithLabelValues(metrics.OutcomeReconciled).Inc()
	w.logger.Info("Reconciled daily logs", "dates", done, "drifted", len(dates))
	return done, nil
}

// Drain runs batches until the backlog is smaller than one batch and returns
// the total number of dates recomputed
func (w *Worker) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := w.RunOnce(ctx)
		total += n
		if err != nil || n < w.batchSize {
			return total, err
		}
	}
}
