package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fittrack/internal/database"
)

var testNow = time.Date(2026, 2, 4, 15, 30, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(t.TempDir() + "/test.db")
	require.NoError(t, err, "Failed to open database")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Init(), "Failed to initialize schema")
	return db
}

func setupService(t *testing.T, opts ...Option) (*Service, *database.DB) {
	t.Helper()

	db := setupTestDB(t)
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(db, opts...), db
}

func ptr[T any](v T) *T { return &v }

func addMeal(t *testing.T, s *Service, date string, calories, protein, carbs, fat float64) *database.MealLog {
	t.Helper()

	m, err := s.CreateMealLog(context.Background(), MealLogInput{
		Date:     date,
		MealType: database.MealLunch,
		FoodName: "Chicken rice",
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
	})
	require.NoError(t, err, "Failed to create meal log")
	return m
}

func addExercise(t *testing.T, s *Service, date, name string) *database.ExerciseLog {
	t.Helper()

	e, err := s.CreateExerciseLog(context.Background(), ExerciseLogInput{
		Date:         date,
		ExerciseName: name,
		Sets:         3,
		Reps:         10,
	})
	require.NoError(t, err, "Failed to create exercise log")
	return e
}

func TestToday(t *testing.T) {
	s, _ := setupService(t)
	require.Equal(t, "2026-02-04", s.Today())

	tokyo := time.FixedZone("JST", 9*60*60)

	// 15:30 UTC is already the next day in Tokyo
	s, _ = setupService(t, WithLocation(tokyo))
	require.Equal(t, "2026-02-05", s.Today())
}
