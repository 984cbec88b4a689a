package tracker

import (
	"context"
	"fmt"

	"fittrack/internal/database"
)

// WorkoutPlanInput is the payload for saving a workout plan
type WorkoutPlanInput struct {
	Name        string                  `json:"name" validate:"required"`
	Description *string                 `json:"description,omitempty"`
	Exercises   []database.PlanExercise `json:"exercises" validate:"dive"`
	CreatedBy   string                  `json:"createdBy" validate:"required,oneof=butler trainer"`
}

// CreateWorkoutPlan saves a new workout plan
func (s *Service) CreateWorkoutPlan(ctx context.Context, in WorkoutPlanInput) (*database.WorkoutPlan, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}

	p := &database.WorkoutPlan{
		Name:        in.Name,
		Description: in.Description,
		Exercises:   in.Exercises,
		CreatedBy:   in.CreatedBy,
	}
	if p.Exercises == nil {
		p.Exercises = []database.PlanExercise{}
	}
	if err := s.store.InsertWorkoutPlan(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Workout plan created", "id", p.ID, "name", p.Name, "exercises", len(p.Exercises))
	return p, nil
}

// GetWorkoutPlan returns the plan with the given id, or nil
func (s *Service) GetWorkoutPlan(ctx context.Context, id string) (*database.WorkoutPlan, error) {
	return s.store.GetWorkoutPlan(ctx, id)
}

// ListWorkoutPlans returns every plan, oldest first
func (s *Service) ListWorkoutPlans(ctx context.Context) ([]*database.WorkoutPlan, error) {
	return s.store.ListWorkoutPlans(ctx, "")
}

// ListWorkoutPlansByCreator returns the plans authored by one assistant
func (s *Service) ListWorkoutPlansByCreator(ctx context.Context, createdBy string) ([]*database.WorkoutPlan, error) {
	if createdBy != database.CreatedByButler && createdBy != database.CreatedByTrainer {
		return nil, fmt.Errorf("%w: unknown plan author %q", ErrInvalidInput, createdBy)
	}
	return s.store.ListWorkoutPlans(ctx, createdBy)
}

// UpdateWorkoutPlan applies a partial update to a plan
func (s *Service) UpdateWorkoutPlan(ctx context.Context, id string, p database.WorkoutPlanPatch) error {
	if err := notCleared("name", p.Name); err != nil {
		return err
	}
	if v, ok := p.Name.Value(); ok && v == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}
	if exercises, ok := p.Exercises.Value(); ok {
		if err := s.validate.Var(exercises, "dive"); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if err := s.store.UpdateWorkoutPlan(ctx, id, p); err != nil {
		return fmt.Errorf("workout plan %s: %w", id, err)
	}
	return nil
}

// DeleteWorkoutPlan removes a plan. Deleting a missing id succeeds.
func (s *Service) DeleteWorkoutPlan(ctx context.Context, id string) error {
	return s.store.DeleteWorkoutPlan(ctx, id)
}

// DeleteAllWorkoutPlans removes every plan and returns how many were removed
func (s *Service) DeleteAllWorkoutPlans(ctx context.Context) (int64, error) {
	return s.store.DeleteAllWorkoutPlans(ctx)
}
