package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fittrack/internal/database"
	"fittrack/internal/exercisedb"
	"fittrack/internal/tracker"
)

var testNow = time.Date(2026, 2, 4, 15, 30, 0, 0, time.UTC)

const today = "2026-02-04"

func setupService(t *testing.T) *tracker.Service {
	t.Helper()

	db, err := database.Open(t.TempDir() + "/test.db")
	require.NoError(t, err, "Failed to open database")
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Init(), "Failed to initialize schema")

	return tracker.New(db, tracker.WithClock(func() time.Time { return testNow }))
}

func findTool(t *testing.T, p Persona, name string) Tool {
	t.Helper()

	for _, tool := range p.AllTools() {
		if tool.Name() == name {
			return tool
		}
	}
	t.Fatalf("Tool %s not found in %s", name, p.Name)
	return nil
}

func call(t *testing.T, tool Tool, args string) (any, error) {
	t.Helper()
	return tool.Call(context.Background(), json.RawMessage(args))
}

func TestLogExerciseDefaultsToTodayAndRecalculates(t *testing.T) {
	svc := setupService(t)
	butler := ButlerPersona(svc, nil)

	out, err := call(t, findTool(t, butler, "logExercise"), `{"exerciseName":"Bench Press","sets":3,"reps":8,"weight":60}`)
	require.NoError(t, err)

	logged := out.(*exerciseLogged)
	assert.True(t, logged.Success)
	assert.Equal(t, "Logged: Bench Press - 3 sets x 8 reps @ 60kg", logged.Message)
	assert.NotEmpty(t, logged.ExerciseID)

	entry, err := svc.GetExerciseLog(context.Background(), logged.ExerciseID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, today, entry.Date)

	daily, err := svc.DailyLogByDate(context.Background(), today)
	require.NoError(t, err)
	require.NotNil(t, daily, "Expected the daily log to be recalculated")
	assert.Equal(t, 1, daily.ExerciseCount)
}

func TestLogExerciseRejectsInvalidArguments(t *testing.T) {
	svc := setupService(t)
	tool := findTool(t, ButlerPersona(svc, nil), "logExercise")

	tests := []struct {
		name string
		args string
	}{
		{"zero sets", `{"exerciseName":"Squat","sets":0,"reps":5}`},
		{"missing name", `{"sets":3,"reps":5}`},
		{"bad date", `{"exerciseName":"Squat","sets":3,"reps":5,"date":"04/02/2026"}`},
		{"not json", `{"exerciseName":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(t, tool, tt.args)
			assert.Error(t, err)
		})
	}

	logs, err := svc.ExerciseLogsByDate(context.Background(), today)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestLogMealOnExplicitDate(t *testing.T) {
	svc := setupService(t)
	butler := ButlerPersona(svc, nil)

	out, err := call(t, findTool(t, butler, "logMeal"),
		`{"foodName":"chicken rice","mealType":"lunch","calories":650,"protein":35,"carbs":80,"fat":18,"date":"2026-02-03"}`)
	require.NoError(t, err)

	logged := out.(*mealLogged)
	assert.Equal(t, "Logged lunch: chicken rice - 650 cal | 35g protein | 80g carbs | 18g fat", logged.Message)

	daily, err := svc.DailyLogByDate(context.Background(), "2026-02-03")
	require.NoError(t, err)
	require.NotNil(t, daily)
	assert.Equal(t, 650.0, daily.TotalCalories)
	assert.Equal(t, 35.0, daily.TotalProtein)

	_, err = call(t, findTool(t, butler, "logMeal"), `{"foodName":"toast","mealType":"brunch","calories":1,"protein":1,"carbs":1,"fat":1}`)
	assert.Error(t, err, "Expected unknown meal type to be rejected")
}

func TestGetDailyMealsAndExercises(t *testing.T) {
	svc := setupService(t)
	trainer := TrainerPersona(svc)
	ctx := context.Background()

	for _, food := range []string{"oats", "banana"} {
		_, err := svc.CreateMealLog(ctx, tracker.MealLogInput{Date: today, MealType: "breakfast", FoodName: food, Calories: 150, Protein: 5, Carbs: 27, Fat: 2.5})
		require.NoError(t, err)
	}
	_, err := svc.CreateExerciseLog(ctx, tracker.ExerciseLogInput{Date: today, ExerciseName: "Row", Sets: 4, Reps: 10})
	require.NoError(t, err)

	out, err := call(t, findTool(t, trainer, "getDailyMeals"), `{}`)
	require.NoError(t, err)
	meals := out.(*dailyMeals)
	assert.Equal(t, today, meals.Date)
	assert.Len(t, meals.Meals, 2)
	assert.Equal(t, nutrientTotals{Calories: 300, Protein: 10, Carbs: 54, Fat: 5}, meals.Totals)

	out, err = call(t, findTool(t, trainer, "getDailyExercises"), `{"date":"2026-02-04"}`)
	require.NoError(t, err)
	exercises := out.(*dailyExercises)
	assert.Equal(t, 1, exercises.Count)
	assert.Equal(t, "Row", exercises.Exercises[0].Name)

	out, err = call(t, findTool(t, trainer, "getDailyExercises"), `{"date":"2026-01-01"}`)
	require.NoError(t, err)
	empty := out.(*dailyExercises)
	assert.Equal(t, 0, empty.Count)
	assert.NotNil(t, empty.Exercises)
}

func TestGetDailyProgressUsesProfileTarget(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateProfile(ctx, tracker.ProfileInput{Name: "Sam", Height: 180, Weight: 80, FitnessGoal: "maintain", DailyCalorieTarget: ptr(2500)})
	require.NoError(t, err)

	tool := findTool(t, ButlerPersona(svc, nil), "logMeal")
	_, err = call(t, tool, `{"foodName":"pasta","mealType":"dinner","calories":1000,"protein":40,"carbs":120,"fat":30}`)
	require.NoError(t, err)

	out, err := call(t, findTool(t, ButlerPersona(svc, nil), "getDailyProgress"), `{}`)
	require.NoError(t, err)
	progress := out.(*tracker.Progress)
	assert.Equal(t, 2500, progress.CalorieTarget)
	assert.Equal(t, 40, progress.CalorieProgress)
}

func TestSuggestExercises(t *testing.T) {
	svc := setupService(t)

	t.Run("not configured", func(t *testing.T) {
		tool := findTool(t, ButlerPersona(svc, nil), "suggestExercises")
		_, err := call(t, tool, `{"bodyPart":"chest"}`)
		assert.True(t, errors.Is(err, exercisedb.ErrNotConfigured), "Expected ErrNotConfigured, got %v", err)
	})

	t.Run("needs a filter", func(t *testing.T) {
		tool := findTool(t, ButlerPersona(svc, exercisedb.NewClient("key", "", nil)), "suggestExercises")
		_, err := call(t, tool, `{}`)
		assert.Error(t, err)
	})

	t.Run("by body part", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/exercises/bodyPart/chest", r.URL.Path)
			assert.Equal(t, "3", r.URL.Query().Get("limit"))
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]exercisedb.Exercise{{ID: "0025", Name: "barbell bench press", BodyPart: "chest", Equipment: "barbell"}})
		}))
		defer server.Close()

		client := exercisedb.NewClient("key", "", nil)
		client.SetBaseURL(server.URL)

		out, err := call(t, findTool(t, ButlerPersona(svc, client), "suggestExercises"), `{"bodyPart":"chest","limit":3}`)
		require.NoError(t, err)

		s := out.(*suggestions)
		assert.Equal(t, "Chest exercises", s.Title)
		require.Len(t, s.Exercises, 1)
		assert.Equal(t, "barbell bench press", s.Exercises[0].Name)
	})

	t.Run("by equipment", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/exercises/equipment/dumbbell", r.URL.Path)
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := exercisedb.NewClient("key", "", nil)
		client.SetBaseURL(server.URL)

		out, err := call(t, findTool(t, ButlerPersona(svc, client), "suggestExercises"), `{"equipment":"dumbbell"}`)
		require.NoError(t, err)

		s := out.(*suggestions)
		assert.Equal(t, "Exercises using dumbbell", s.Title)
		assert.NotNil(t, s.Exercises)
		assert.Empty(t, s.Exercises)
	})
}

func TestWeeklyStatsTool(t *testing.T) {
	svc := setupService(t)

	_, err := call(t, findTool(t, ButlerPersona(svc, nil), "logExercise"), `{"exerciseName":"Run","sets":1,"reps":1,"duration":30}`)
	require.NoError(t, err)

	out, err := call(t, findTool(t, ButlerPersona(svc, nil), "getWeeklyStats"), ``)
	require.NoError(t, err)
	stats := out.(*tracker.WeeklyStats)
	assert.Equal(t, 1, stats.TotalExercises)
	assert.Equal(t, 1, stats.DaysTracked)
	assert.Equal(t, 1, stats.StreakDays)
}

func TestUserProfileTool(t *testing.T) {
	svc := setupService(t)
	tool := findTool(t, TrainerPersona(svc), "getUserProfile")

	out, err := call(t, tool, `{}`)
	require.NoError(t, err)
	assert.False(t, out.(*profileResult).Found)

	_, err = svc.CreateProfile(context.Background(), tracker.ProfileInput{Name: "Sam", Height: 180, Weight: 80, FitnessGoal: "build_muscle"})
	require.NoError(t, err)

	out, err = call(t, tool, `{}`)
	require.NoError(t, err)
	res := out.(*profileResult)
	require.True(t, res.Found)
	assert.Equal(t, "Sam", res.Profile.Name)
}

func TestProgressHistoryTool(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateExerciseLog(ctx, tracker.ExerciseLogInput{Date: "2026-02-01", ExerciseName: "Deadlift", Sets: 3, Reps: 5, Weight: ptr(120.0)})
	require.NoError(t, err)
	_, err = svc.CreateExerciseLog(ctx, tracker.ExerciseLogInput{Date: "2026-01-01", ExerciseName: "Old", Sets: 1, Reps: 1})
	require.NoError(t, err)

	out, err := call(t, findTool(t, TrainerPersona(svc), "getUserProgressHistory"), `{}`)
	require.NoError(t, err)

	history := out.(*tracker.History)
	require.Len(t, history.Exercises, 1)
	assert.Equal(t, "Deadlift", history.Exercises[0].Name)

	_, err = call(t, findTool(t, TrainerPersona(svc), "getUserProgressHistory"), `{"days":-1}`)
	assert.Error(t, err)
}

func TestCreateAndListWorkoutPlans(t *testing.T) {
	svc := setupService(t)
	trainer := TrainerPersona(svc)

	out, err := call(t, findTool(t, trainer, "createWorkoutPlan"), `{
		"name": "Push day",
		"description": "Chest, shoulders and triceps",
		"exercises": [
			{"name": "Bench Press", "sets": 4, "reps": 8},
			{"name": "Dips", "sets": 3, "reps": 12, "restSeconds": 90}
		]
	}`)
	require.NoError(t, err)

	created := out.(*planCreated)
	assert.Equal(t, "Created workout plan: Push day with 2 exercises", created.Message)

	plan, err := svc.GetWorkoutPlan(context.Background(), created.PlanID)
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, database.CreatedByTrainer, plan.CreatedBy)
	assert.Equal(t, 60, plan.Exercises[0].RestSeconds)
	assert.Equal(t, 90, plan.Exercises[1].RestSeconds)

	out, err = call(t, findTool(t, trainer, "getWorkoutPlans"), `{}`)
	require.NoError(t, err)
	list := out.(*planList)
	require.Len(t, list.Plans, 1)
	assert.Equal(t, 2, list.Plans[0].ExerciseCount)

	_, err = call(t, findTool(t, trainer, "createWorkoutPlan"), `{"name":"Empty","exercises":[]}`)
	assert.Error(t, err, "Expected a plan without exercises to be rejected")
}

func ptr[T any](v T) *T { return &v }
