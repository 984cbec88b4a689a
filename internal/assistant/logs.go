package assistant

import (
	"context"

	"fittrack/internal/tracker"
)

type dateArgs struct {
	Date string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

var dateParams = object(map[string]*Schema{
	"date": str("Date in YYYY-MM-DD format. Defaults to today."),
})

// orToday returns date, or today's date in the tracker's zone when empty
func orToday(svc *tracker.Service, date string) string {
	if date == "" {
		return svc.Today()
	}
	return date
}

type exerciseSummary struct {
	Name   string   `json:"name"`
	Sets   int      `json:"sets"`
	Reps   int      `json:"reps"`
	Weight *float64 `json:"weight,omitempty"`
}

type dailyExercises struct {
	Date      string            `json:"date"`
	Exercises []exerciseSummary `json:"exercises"`
	Count     int               `json:"count"`
}

func getDailyExercisesTool(svc *tracker.Service) Tool {
	return NewTool("getDailyExercises",
		"Get all exercises logged for a specific date.",
		dateParams,
		func(ctx context.Context, in dateArgs) (*dailyExercises, error) {
			date := orToday(svc, in.Date)
			logs, err := svc.ExerciseLogsByDate(ctx, date)
			if err != nil {
				return nil, err
			}

			out := &dailyExercises{Date: date, Exercises: make([]exerciseSummary, 0, len(logs)), Count: len(logs)}
			for _, l := range logs {
				out.Exercises = append(out.Exercises, exerciseSummary{Name: l.ExerciseName, Sets: l.Sets, Reps: l.Reps, Weight: l.Weight})
			}
			return out, nil
		})
}

type mealSummary struct {
	FoodName string  `json:"foodName"`
	MealType string  `json:"mealType"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type nutrientTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type dailyMeals struct {
	Date   string         `json:"date"`
	Meals  []mealSummary  `json:"meals"`
	Totals nutrientTotals `json:"totals"`
}

func getDailyMealsTool(svc *tracker.Service) Tool {
	return NewTool("getDailyMeals",
		"Get all meals logged for a specific date with nutrition totals.",
		dateParams,
		func(ctx context.Context, in dateArgs) (*dailyMeals, error) {
			date := orToday(svc, in.Date)
			logs, err := svc.MealLogsByDate(ctx, date)
			if err != nil {
				return nil, err
			}

			out := &dailyMeals{Date: date, Meals: make([]mealSummary, 0, len(logs))}
			for _, m := range logs {
				out.Meals = append(out.Meals, mealSummary{
					FoodName: m.FoodName,
					MealType: m.MealType,
					Calories: m.Calories,
					Protein:  m.Protein,
					Carbs:    m.Carbs,
					Fat:      m.Fat,
				})
				out.Totals.Calories += m.Calories
				out.Totals.Protein += m.Protein
				out.Totals.Carbs += m.Carbs
				out.Totals.Fat += m.Fat
			}
			return out, nil
		})
}
