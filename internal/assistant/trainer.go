package assistant

import (
	"context"
	"fmt"

	"fittrack/internal/database"
	"fittrack/internal/tracker"
)

const trainerInstructions = `You are the FitTrack trainer, a personal coach. You look at what the user has actually been doing and help them improve.

Start by reading the profile with getUserProfile so advice fits their goal, height, weight and calorie target. If no profile exists, ask for one.
Use getUserProgressHistory, getDailyExercises and getDailyMeals to ground feedback in the logs rather than guesses.
When you build a plan, save it with createWorkoutPlan and show it with a WorkoutPlanCard. Use getWorkoutPlans to refer back to saved plans.
Explain technique with an ExerciseAdviceCard and review described form with a FormCorrectionCard.
Be encouraging and specific. Point out safety concerns plainly. You do not log meals or workouts; the butler does that.`

type historyArgs struct {
	Days int `json:"days,omitempty" validate:"gte=0,lte=365"`
}

type profileResult struct {
	Found   bool                  `json:"found"`
	Profile *database.UserProfile `json:"profile,omitempty"`
}

type planExerciseArgs struct {
	Name        string  `json:"name" validate:"required"`
	Sets        int     `json:"sets" validate:"min=1"`
	Reps        int     `json:"reps" validate:"min=1"`
	RestSeconds *int    `json:"restSeconds,omitempty" validate:"omitempty,gte=0"`
	ExerciseID  *string `json:"exerciseId,omitempty"`
}

type createPlanArgs struct {
	Name        string             `json:"name" validate:"required"`
	Description *string            `json:"description,omitempty"`
	Exercises   []planExerciseArgs `json:"exercises" validate:"required,min=1,dive"`
}

type planCreated struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	PlanID  string `json:"planId"`
}

type planSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	ExerciseCount int     `json:"exerciseCount"`
}

type planList struct {
	Plans []planSummary `json:"plans"`
}

const (
	defaultHistoryDays = 7
	defaultRestSeconds = 60
)

// TrainerPersona is the coaching assistant
func TrainerPersona(svc *tracker.Service) Persona {
	return Persona{
		Name:         Trainer,
		Instructions: trainerInstructions,
		Tools: []Tool{
			getUserProfileTool(svc),
			getUserProgressHistoryTool(svc),
			createWorkoutPlanTool(svc),
			getWorkoutPlansTool(svc),
			getDailyExercisesTool(svc),
			getDailyMealsTool(svc),
		},
		Components: TrainerComponents,
	}
}

func getUserProfileTool(svc *tracker.Service) Tool {
	return NewTool("getUserProfile",
		"Get the user's profile: name, height, weight, age, fitness goal and daily calorie target.",
		nil,
		func(ctx context.Context, _ struct{}) (*profileResult, error) {
			p, err := svc.GetProfile(ctx)
			if err != nil {
				return nil, err
			}
			return &profileResult{Found: p != nil, Profile: p}, nil
		})
}

func getUserProgressHistoryTool(svc *tracker.Service) Tool {
	params := object(map[string]*Schema{
		"days": integer("Number of days to look back, default 7"),
	})

	return NewTool("getUserProgressHistory",
		"Get the user's exercise log and daily calorie history for analysis.",
		params,
		func(ctx context.Context, in historyArgs) (*tracker.History, error) {
			days := in.Days
			if days == 0 {
				days = defaultHistoryDays
			}
			return svc.ProgressHistory(ctx, days)
		})
}

func createWorkoutPlanTool(svc *tracker.Service) Tool {
	params := object(map[string]*Schema{
		"name":        str("Name of the workout plan"),
		"description": str("What the plan is for"),
		"exercises": array(object(map[string]*Schema{
			"name":        str("Exercise name"),
			"sets":        integer("Number of sets"),
			"reps":        integer("Reps per set"),
			"restSeconds": integer("Rest between sets in seconds, default 60"),
			"exerciseId":  str("ExerciseDB id when known"),
		}, "name", "sets", "reps"), "Exercises in the order they are performed"),
	}, "name", "exercises")

	return NewTool("createWorkoutPlan",
		"Create and save a new workout plan for the user.",
		params,
		func(ctx context.Context, in createPlanArgs) (*planCreated, error) {
			exercises := make([]database.PlanExercise, 0, len(in.Exercises))
			for _, e := range in.Exercises {
				rest := defaultRestSeconds
				if e.RestSeconds != nil {
					rest = *e.RestSeconds
				}
				exercises = append(exercises, database.PlanExercise{
					ExerciseID:  e.ExerciseID,
					Name:        e.Name,
					Sets:        e.Sets,
					Reps:        e.Reps,
					RestSeconds: rest,
				})
			}

			plan, err := svc.CreateWorkoutPlan(ctx, tracker.WorkoutPlanInput{
				Name:        in.Name,
				Description: in.Description,
				Exercises:   exercises,
				CreatedBy:   database.CreatedByTrainer,
			})
			if err != nil {
				return nil, err
			}

			return &planCreated{
				Success: true,
				Message: fmt.Sprintf("Created workout plan: %s with %d exercises", plan.Name, len(plan.Exercises)),
				PlanID:  plan.ID,
			}, nil
		})
}

func getWorkoutPlansTool(svc *tracker.Service) Tool {
	return NewTool("getWorkoutPlans",
		"Get all saved workout plans.",
		nil,
		func(ctx context.Context, _ struct{}) (*planList, error) {
			plans, err := svc.ListWorkoutPlans(ctx)
			if err != nil {
				return nil, err
			}

			out := &planList{Plans: make([]planSummary, 0, len(plans))}
			for _, p := range plans {
				out.Plans = append(out.Plans, planSummary{
					ID:            p.ID,
					Name:          p.Name,
					Description:   p.Description,
					ExerciseCount: len(p.Exercises),
				})
			}
			return out, nil
		})
}
