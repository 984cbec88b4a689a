package assistant

import (
	"context"
	"fmt"
	"strings"

	"fittrack/internal/exercisedb"
	"fittrack/internal/tracker"
)

const butlerInstructions = `You are the FitTrack butler. The user tells you what they ate or how they trained and you record it.

Keep replies short. When the user mentions a workout, call logExercise once per exercise and then show an ExerciseLogCard.
When the user mentions food, estimate calories, protein, carbs and fat yourself, call logMeal and then show a MealLogCard.
Pick the meal type from the time of day or the user's wording when they do not say it.
Use getDailyProgress or getWeeklyStats when the user asks how they are doing and present the day with a DailyProgressCard.
Use suggestExercises when the user asks what to train, then show an ExerciseSuggestionList.
Dates are YYYY-MM-DD. Leave the date out to mean today.
Do not give training or diet advice beyond a sentence; the trainer handles coaching.`

type logExerciseArgs struct {
	ExerciseName string   `json:"exerciseName" validate:"required"`
	Sets         int      `json:"sets" validate:"min=1"`
	Reps         int      `json:"reps" validate:"min=1"`
	Weight       *float64 `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Duration     *float64 `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Date         string   `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes        *string  `json:"notes,omitempty"`
}

type exerciseLogged struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ExerciseID string `json:"exerciseId"`
}

type logMealArgs struct {
	FoodName string  `json:"foodName" validate:"required"`
	MealType string  `json:"mealType" validate:"required,oneof=breakfast lunch dinner snack"`
	Quantity *string `json:"quantity,omitempty"`
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
	Date     string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type mealLogged struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	MealID  string `json:"mealId"`
}

type suggestArgs struct {
	BodyPart  string `json:"bodyPart,omitempty" validate:"required_without=Equipment"`
	Equipment string `json:"equipment,omitempty"`
	Limit     int    `json:"limit,omitempty" validate:"gte=0,lte=50"`
}

type suggestions struct {
	Title     string                `json:"title"`
	BodyPart  string                `json:"bodyPart,omitempty"`
	Equipment string                `json:"equipment,omitempty"`
	Exercises []exercisedb.Exercise `json:"exercises"`
}

// ButlerPersona is the quick logging assistant. edb may be nil, in which
// case suggestExercises reports that suggestions are unavailable.
func ButlerPersona(svc *tracker.Service, edb *exercisedb.Client) Persona {
	return Persona{
		Name:         Butler,
		Instructions: butlerInstructions,
		Tools: []Tool{
			logExerciseTool(svc),
			getDailyExercisesTool(svc),
			logMealTool(svc),
			getDailyMealsTool(svc),
			getDailyProgressTool(svc),
			getWeeklyStatsTool(svc),
			suggestExercisesTool(edb),
		},
		Components: ButlerComponents,
	}
}

func logExerciseTool(svc *tracker.Service) Tool {
	params := object(map[string]*Schema{
		"exerciseName": str("Name of the exercise, e.g. 'Bench Press' or 'Squats'"),
		"sets":         integer("Number of sets completed"),
		"reps":         integer("Number of reps per set"),
		"weight":       number("Weight used in kg, omitted for bodyweight exercises"),
		"duration":     number("Duration in minutes, for cardio"),
		"date":         str("Date in YYYY-MM-DD format. Defaults to today."),
		"notes":        str("Additional notes about the exercise"),
	}, "exerciseName", "sets", "reps")

	return NewTool("logExercise",
		"Log a completed exercise with sets, reps and optional weight. Use this when the user says they did an exercise.",
		params,
		func(ctx context.Context, in logExerciseArgs) (*exerciseLogged, error) {
			date := orToday(svc, in.Date)
			entry, err := svc.CreateExerciseLog(ctx, tracker.ExerciseLogInput{
				Date:         date,
				ExerciseName: in.ExerciseName,
				Sets:         in.Sets,
				Reps:         in.Reps,
				Weight:       in.Weight,
				Duration:     in.Duration,
				Notes:        in.Notes,
			})
			if err != nil {
				return nil, err
			}
			if _, err := svc.Recalculate(ctx, date); err != nil {
				return nil, fmt.Errorf("logged exercise %s but failed to update daily totals: %w", entry.ID, err)
			}

			msg := fmt.Sprintf("Logged: %s - %d sets x %d reps", in.ExerciseName, in.Sets, in.Reps)
			if in.Weight != nil && *in.Weight > 0 {
				msg += fmt.Sprintf(" @ %gkg", *in.Weight)
			}
			return &exerciseLogged{Success: true, Message: msg, ExerciseID: entry.ID}, nil
		})
}

func logMealTool(svc *tracker.Service) Tool {
	params := object(map[string]*Schema{
		"foodName": str("Description of the food, e.g. 'chicken rice' or '2 eggs and toast'"),
		"mealType": enum("Type of meal", "breakfast", "lunch", "dinner", "snack"),
		"quantity": str("Quantity, e.g. '1 bowl' or '200g'"),
		"calories": number("Estimated calories"),
		"protein":  number("Estimated protein in grams"),
		"carbs":    number("Estimated carbohydrates in grams"),
		"fat":      number("Estimated fat in grams"),
		"date":     str("Date in YYYY-MM-DD format. Defaults to today."),
	}, "foodName", "mealType", "calories", "protein", "carbs", "fat")

	return NewTool("logMeal",
		"Log a meal with your own estimate of its calories and macros. Use this when the user says they ate something.",
		params,
		func(ctx context.Context, in logMealArgs) (*mealLogged, error) {
			date := orToday(svc, in.Date)
			entry, err := svc.CreateMealLog(ctx, tracker.MealLogInput{
				Date:     date,
				MealType: in.MealType,
				FoodName: in.FoodName,
				Quantity: in.Quantity,
				Calories: in.Calories,
				Protein:  in.Protein,
				Carbs:    in.Carbs,
				Fat:      in.Fat,
			})
			if err != nil {
				return nil, err
			}
			if _, err := svc.Recalculate(ctx, date); err != nil {
				return nil, fmt.Errorf("logged meal %s but failed to update daily totals: %w", entry.ID, err)
			}

			msg := fmt.Sprintf("Logged %s: %s - %g cal | %gg protein | %gg carbs | %gg fat",
				in.MealType, in.FoodName, in.Calories, in.Protein, in.Carbs, in.Fat)
			return &mealLogged{Success: true, Message: msg, MealID: entry.ID}, nil
		})
}

func getDailyProgressTool(svc *tracker.Service) Tool {
	return NewTool("getDailyProgress",
		"Get a day's overall progress: exercises done and nutrition against the calorie target.",
		dateParams,
		func(ctx context.Context, in dateArgs) (*tracker.Progress, error) {
			return svc.DailyProgress(ctx, orToday(svc, in.Date))
		})
}

func getWeeklyStatsTool(svc *tracker.Service) Tool {
	return NewTool("getWeeklyStats",
		"Get statistics for the past 7 days.",
		nil,
		func(ctx context.Context, _ struct{}) (*tracker.WeeklyStats, error) {
			return svc.WeeklyStats(ctx)
		})
}

func suggestExercisesTool(edb *exercisedb.Client) Tool {
	params := object(map[string]*Schema{
		"bodyPart":  str("Body part to train, e.g. 'chest', 'back', 'upper legs', 'waist'"),
		"equipment": str("Equipment available, e.g. 'body weight', 'dumbbell', 'barbell'"),
		"limit":     integer("How many exercises to return, default 5"),
	})

	return NewTool("suggestExercises",
		"Look up exercises from the exercise database by body part or by equipment. Give at least one of the two.",
		params,
		func(ctx context.Context, in suggestArgs) (*suggestions, error) {
			if edb == nil || !edb.Configured() {
				return nil, fmt.Errorf("exercise suggestions are unavailable: %w", exercisedb.ErrNotConfigured)
			}

			var (
				list  []exercisedb.Exercise
				title string
				err   error
			)
			if in.BodyPart != "" {
				list, err = edb.ByBodyPart(ctx, in.BodyPart, in.Limit)
				title = titleCase(in.BodyPart) + " exercises"
			} else {
				list, err = edb.ByEquipment(ctx, in.Equipment, in.Limit)
				title = "Exercises using " + in.Equipment
			}
			if err != nil {
				return nil, err
			}
			if list == nil {
				list = []exercisedb.Exercise{}
			}
			return &suggestions{Title: title, BodyPart: in.BodyPart, Equipment: in.Equipment, Exercises: list}, nil
		})
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
