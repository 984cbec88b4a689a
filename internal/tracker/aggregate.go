package tracker

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"fittrack/internal/database"
	"fittrack/internal/metrics"
)

// SumDay folds the meal and exercise logs of one date into daily totals.
// An empty day yields all zeros.
func SumDay(meals []*database.MealLog, exercises []*database.ExerciseLog) database.DailyTotals {
	var t database.DailyTotals
	for _, m := range meals {
		t.Calories += m.Calories
		t.Protein += m.Protein
		t.Carbs += m.Carbs
		t.Fat += m.Fat
	}
	t.ExerciseCount = len(exercises)
	return t
}

// Recalculate rebuilds the daily log for date from the meal and exercise logs
// currently stored for it and returns the daily log id.
//
// The reads and the write are separate store operations with no lock held
// across them. A log written between the two phases is not reflected, and
// concurrent calls for the same date race with last write winning. Callers
// re-invoke Recalculate after mutating logs.
func (s *Service) Recalculate(ctx context.Context, date string) (string, error) {
	timer := prometheus.NewTimer(metrics.RecalculationDuration)
	defer timer.ObserveDuration()

	var (
		meals     []*database.MealLog
		exercises []*database.ExerciseLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meals, err = s.store.ListMealLogsByDate(gctx, date)
		return err
	})
	g.Go(func() error {
		var err error
		exercises, err = s.store.ListExerciseLogsByDate(gctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.RecalculationsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return "", fmt.Errorf("failed to read logs for %s: %w", date, err)
	}

	totals := SumDay(meals, exercises)

	id, err := s.store.UpsertDailyTotals(ctx, date, totals)
	if err != nil {
		metrics.RecalculationsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return "", fmt.Errorf("failed to write daily log for %s: %w", date, err)
	}

	metrics.RecalculationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.logger.Debug("Recalculated daily log",
		"date", date,
		"id", id,
		"meals", len(meals),
		"exercises", totals.ExerciseCount,
		"calories", totals.Calories)

	return id, nil
}
