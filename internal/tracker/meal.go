package tracker

import (
	"context"
	"fmt"

	"fittrack/internal/database"
)

// MealLogInput is the payload for logging a meal
type MealLogInput struct {
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	MealType string   `json:"mealType" validate:"required,oneof=breakfast lunch dinner snack"`
	FoodName string   `json:"foodName" validate:"required"`
	Quantity *string  `json:"quantity,omitempty"`
	Calories float64  `json:"calories" validate:"gte=0"`
	Protein  float64  `json:"protein" validate:"gte=0"`
	Carbs    float64  `json:"carbs" validate:"gte=0"`
	Fat      float64  `json:"fat" validate:"gte=0"`
	Fiber    *float64 `json:"fiber,omitempty" validate:"omitempty,gte=0"`
	Notes    *string  `json:"notes,omitempty"`
}

// MealTotals is the nutrient sum over today's meal logs
type MealTotals struct {
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
	MealCount int     `json:"mealCount"`
}

// CreateMealLog stores a new meal log and returns it with its id.
// The daily log for the date is not touched.
func (s *Service) CreateMealLog(ctx context.Context, in MealLogInput) (*database.MealLog, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}

	m := &database.MealLog{
		Date:     in.Date,
		MealType: in.MealType,
		FoodName: in.FoodName,
		Quantity: in.Quantity,
		Calories: in.Calories,
		Protein:  in.Protein,
		Carbs:    in.Carbs,
		Fat:      in.Fat,
		Fiber:    in.Fiber,
		Notes:    in.Notes,
	}
	if err := s.store.InsertMealLog(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("Meal logged", "id", m.ID, "date", m.Date, "meal_type", m.MealType, "calories", m.Calories)
	return m, nil
}

// UpdateMealLog applies a partial update. Food name and the four macro
// fields are required and cannot be cleared.
func (s *Service) UpdateMealLog(ctx context.Context, id string, p database.MealLogPatch) error {
	if v, ok := p.FoodName.Value(); ok && v == "" {
		return fmt.Errorf("%w: foodName cannot be empty", ErrInvalidInput)
	}
	for _, err := range []error{
		notCleared("foodName", p.FoodName),
		notCleared("calories", p.Calories),
		notCleared("protein", p.Protein),
		notCleared("carbs", p.Carbs),
		notCleared("fat", p.Fat),
		atLeast("calories", p.Calories, 0),
		atLeast("protein", p.Protein, 0),
		atLeast("carbs", p.Carbs, 0),
		atLeast("fat", p.Fat, 0),
		atLeast("fiber", p.Fiber, 0),
	} {
		if err != nil {
			return err
		}
	}

	if err := s.store.UpdateMealLog(ctx, id, p); err != nil {
		return fmt.Errorf("meal log %s: %w", id, err)
	}
	return nil
}

// DeleteMealLog removes a meal log. Deleting a missing id succeeds.
func (s *Service) DeleteMealLog(ctx context.Context, id string) error {
	return s.store.DeleteMealLog(ctx, id)
}

// GetMealLog returns the meal log with the given id, or nil
func (s *Service) GetMealLog(ctx context.Context, id string) (*database.MealLog, error) {
	return s.store.GetMealLog(ctx, id)
}

// MealLogsByDate returns the meal logs of one date
func (s *Service) MealLogsByDate(ctx context.Context, date string) ([]*database.MealLog, error) {
	return s.store.ListMealLogsByDate(ctx, date)
}

// MealLogsByRange returns meal logs with start <= date <= end, ascending by date
func (s *Service) MealLogsByRange(ctx context.Context, start, end string) ([]*database.MealLog, error) {
	return s.store.ListMealLogsInRange(ctx, start, end)
}

// RecentMealLogs returns the newest meal logs by insertion order.
// A non-positive limit means 10.
func (s *Service) RecentMealLogs(ctx context.Context, limit int) ([]*database.MealLog, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.store.ListRecentMealLogs(ctx, limit)
}

// TodayMealTotals sums today's meal logs directly, without the daily log
func (s *Service) TodayMealTotals(ctx context.Context) (MealTotals, error) {
	meals, err := s.store.ListMealLogsByDate(ctx, s.Today())
	if err != nil {
		return MealTotals{}, err
	}

	t := SumDay(meals, nil)
	return MealTotals{
		Calories:  t.Calories,
		Protein:   t.Protein,
		Carbs:     t.Carbs,
		Fat:       t.Fat,
		MealCount: len(meals),
	}, nil
}
