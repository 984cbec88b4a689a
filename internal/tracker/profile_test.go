package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fittrack/internal/database"
)

func TestSuggestCalorieTarget(t *testing.T) {
	tests := []struct {
		goal   string
		weight float64
		want   int
	}{
		{database.GoalMaintain, 70, 1680},
		{database.GoalLoseWeight, 80, 1536},
		{database.GoalBuildMuscle, 75, 2160},
		{"unknown", 60, 1440},
	}

	for _, tt := range tests {
		t.Run(tt.goal, func(t *testing.T) {
			if got := SuggestCalorieTarget(tt.goal, tt.weight); got != tt.want {
				t.Errorf("SuggestCalorieTarget(%q, %v) = %d, want %d", tt.goal, tt.weight, got, tt.want)
			}
		})
	}
}

func TestProfileSingleton(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	input := ProfileInput{Name: "Alex", Height: 172, Weight: 68, FitnessGoal: database.GoalBuildMuscle}

	_, err := s.UpdateProfile(ctx, database.UserProfilePatch{Weight: database.Set(70.0)})
	require.ErrorIs(t, err, ErrProfileNotFound)

	created, err := s.CreateProfile(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	_, err = s.CreateProfile(ctx, input)
	require.ErrorIs(t, err, ErrProfileExists)

	require.NoError(t, s.RemoveProfile(ctx))
	require.NoError(t, s.RemoveProfile(ctx), "removing an absent profile is a no-op")

	got, err := s.GetProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = s.CreateProfile(ctx, input)
	require.NoError(t, err, "create after remove should succeed")
}

func TestCreateProfileFillsCalorieTarget(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	p, err := s.CreateProfile(ctx, ProfileInput{Name: "Jo", Height: 165, Weight: 80, FitnessGoal: database.GoalLoseWeight})
	require.NoError(t, err)
	require.NotNil(t, p.DailyCalorieTarget)
	assert.Equal(t, 1536, *p.DailyCalorieTarget)

	stored, err := s.GetProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored.DailyCalorieTarget)
	assert.Equal(t, 1536, *stored.DailyCalorieTarget)
}

func TestCreateProfileValidation(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	_, err := s.CreateProfile(ctx, ProfileInput{Name: "Jo", Height: 165, Weight: 80, FitnessGoal: "get_swole"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.CreateProfile(ctx, ProfileInput{Name: "Jo", Weight: 80, FitnessGoal: database.GoalMaintain})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProfile(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	created, err := s.CreateProfile(ctx, ProfileInput{
		Name:        "Alex",
		Height:      172,
		Weight:      68,
		Age:         ptr(31),
		FitnessGoal: database.GoalMaintain,
	})
	require.NoError(t, err)

	updated, err := s.UpdateProfile(ctx, database.UserProfilePatch{
		Weight: database.Set(70.5),
		Age:    database.Null[int](),
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Alex", updated.Name)
	assert.Equal(t, 70.5, updated.Weight)
	assert.Nil(t, updated.Age)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	_, err = s.UpdateProfile(ctx, database.UserProfilePatch{Name: database.Null[string]()})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.UpdateProfile(ctx, database.UserProfilePatch{FitnessGoal: database.Set("bulk")})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.UpdateProfile(ctx, database.UserProfilePatch{Height: database.Set(0.0)})
	require.ErrorIs(t, err, ErrInvalidInput)
}
