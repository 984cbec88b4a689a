package tracker

import (
	"context"
	"fmt"

	"fittrack/internal/database"
)

// ExerciseLogInput is the payload for logging an exercise
type ExerciseLogInput struct {
	Date         string   `json:"date" validate:"required,datetime=2006-01-02"`
	ExerciseID   *string  `json:"exerciseId,omitempty"`
	ExerciseName string   `json:"exerciseName" validate:"required"`
	Sets         int      `json:"sets" validate:"min=1"`
	Reps         int      `json:"reps" validate:"min=1"`
	Weight       *float64 `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Duration     *float64 `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Notes        *string  `json:"notes,omitempty"`
}

// CreateExerciseLog stores a new exercise log and returns it with its id.
// The daily log for the date is not touched.
func (s *Service) CreateExerciseLog(ctx context.Context, in ExerciseLogInput) (*database.ExerciseLog, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}

	e := &database.ExerciseLog{
		Date:         in.Date,
		ExerciseID:   in.ExerciseID,
		ExerciseName: in.ExerciseName,
		Sets:         in.Sets,
		Reps:         in.Reps,
		Weight:       in.Weight,
		Duration:     in.Duration,
		Notes:        in.Notes,
	}
	if err := s.store.InsertExerciseLog(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("Exercise logged", "id", e.ID, "date", e.Date, "exercise", e.ExerciseName)
	return e, nil
}

// UpdateExerciseLog applies a partial update. Sets and reps may be changed
// but not cleared.
func (s *Service) UpdateExerciseLog(ctx context.Context, id string, p database.ExerciseLogPatch) error {
	for _, err := range []error{
		notCleared("sets", p.Sets),
		notCleared("reps", p.Reps),
		atLeast("sets", p.Sets, 1),
		atLeast("reps", p.Reps, 1),
		atLeast("weight", p.Weight, 0),
		atLeast("duration", p.Duration, 0),
	} {
		if err != nil {
			return err
		}
	}

	if err := s.store.UpdateExerciseLog(ctx, id, p); err != nil {
		return fmt.Errorf("exercise log %s: %w", id, err)
	}
	return nil
}

// DeleteExerciseLog removes an exercise log. Deleting a missing id succeeds.
func (s *Service) DeleteExerciseLog(ctx context.Context, id string) error {
	return s.store.DeleteExerciseLog(ctx, id)
}

// GetExerciseLog returns the exercise log with the given id, or nil
func (s *Service) GetExerciseLog(ctx context.Context, id string) (*database.ExerciseLog, error) {
	return s.store.GetExerciseLog(ctx, id)
}

// ExerciseLogsByDate returns the exercise logs of one date
func (s *Service) ExerciseLogsByDate(ctx context.Context, date string) ([]*database.ExerciseLog, error) {
	return s.store.ListExerciseLogsByDate(ctx, date)
}

// ExerciseLogsByRange returns exercise logs with start <= date <= end, unordered
func (s *Service) ExerciseLogsByRange(ctx context.Context, start, end string) ([]*database.ExerciseLog, error) {
	return s.store.ListExerciseLogsInRange(ctx, start, end)
}

// RecentExerciseLogs returns the newest exercise logs by insertion order.
// A non-positive limit means 10.
func (s *Service) RecentExerciseLogs(ctx context.Context, limit int) ([]*database.ExerciseLog, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.store.ListRecentExerciseLogs(ctx, limit)
}

// TodayExerciseCount returns how many exercises were logged today
func (s *Service) TodayExerciseCount(ctx context.Context) (int, error) {
	return s.store.CountExerciseLogsByDate(ctx, s.Today())
}
