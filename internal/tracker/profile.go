package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"

	"fittrack/internal/database"
)

// ProfileInput is the payload for creating the user profile
type ProfileInput struct {
	Name               string  `json:"name" validate:"required"`
	Height             float64 `json:"height" validate:"gt=0"`
	Weight             float64 `json:"weight" validate:"gt=0"`
	Age                *int    `json:"age,omitempty" validate:"omitempty,gt=0"`
	FitnessGoal        string  `json:"fitnessGoal" validate:"required,oneof=lose_weight build_muscle maintain"`
	DailyCalorieTarget *int    `json:"dailyCalorieTarget,omitempty" validate:"omitempty,gt=0"`
}

// SuggestCalorieTarget estimates a daily calorie target from body weight in
// kilograms: 24 kcal per kg, cut by a fifth to lose weight and raised by a
// fifth to build muscle.
func SuggestCalorieTarget(goal string, weightKg float64) int {
	base := weightKg * 24
	switch goal {
	case database.GoalLoseWeight:
		base *= 0.8
	case database.GoalBuildMuscle:
		base *= 1.2
	}
	return int(math.Round(base))
}

// GetProfile returns the user profile, or nil when none exists
func (s *Service) GetProfile(ctx context.Context) (*database.UserProfile, error) {
	return s.store.GetUserProfile(ctx)
}

// CreateProfile creates the user profile. It fails with ErrProfileExists when
// one is already stored. A missing calorie target is filled in from
// SuggestCalorieTarget.
func (s *Service) CreateProfile(ctx context.Context, in ProfileInput) (*database.UserProfile, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}

	p := &database.UserProfile{
		Name:               in.Name,
		Height:             in.Height,
		Weight:             in.Weight,
		Age:                in.Age,
		FitnessGoal:        in.FitnessGoal,
		DailyCalorieTarget: in.DailyCalorieTarget,
	}
	if p.DailyCalorieTarget == nil {
		target := SuggestCalorieTarget(in.FitnessGoal, in.Weight)
		p.DailyCalorieTarget = &target
	}

	if err := s.store.CreateUserProfile(ctx, p); err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			return nil, ErrProfileExists
		}
		return nil, err
	}

	s.logger.Info("Profile created", "id", p.ID, "goal", p.FitnessGoal, "calorie_target", *p.DailyCalorieTarget)
	return p, nil
}

// UpdateProfile applies a partial update to the profile and refreshes its
// update time. Age and calorie target may be cleared; the rest may not.
func (s *Service) UpdateProfile(ctx context.Context, p database.UserProfilePatch) (*database.UserProfile, error) {
	if v, ok := p.Name.Value(); ok && v == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}
	if v, ok := p.FitnessGoal.Value(); ok && !validGoal(v) {
		return nil, fmt.Errorf("%w: unknown fitness goal %q", ErrInvalidInput, v)
	}
	for _, err := range []error{
		notCleared("name", p.Name),
		notCleared("height", p.Height),
		notCleared("weight", p.Weight),
		notCleared("fitnessGoal", p.FitnessGoal),
		positive("height", p.Height),
		positive("weight", p.Weight),
		atLeast("age", p.Age, 1),
		atLeast("dailyCalorieTarget", p.DailyCalorieTarget, 1),
	} {
		if err != nil {
			return nil, err
		}
	}

	profile, err := s.store.UpdateUserProfile(ctx, p)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// RemoveProfile deletes the profile if there is one
func (s *Service) RemoveProfile(ctx context.Context) error {
	return s.store.DeleteUserProfile(ctx)
}

func positive(name string, f database.Field[float64]) error {
	if v, ok := f.Value(); ok && v <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidInput, name)
	}
	return nil
}

func validGoal(goal string) bool {
	switch goal {
	case database.GoalLoseWeight, database.GoalBuildMuscle, database.GoalMaintain:
		return true
	}
	return false
}
