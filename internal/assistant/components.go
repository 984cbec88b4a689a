package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
)

// renderPrefix names the tool that displays a component
const renderPrefix = "show"

// ComponentSpec is a UI card the assistant may ask the client to render
type ComponentSpec struct {
	Name        string
	Description string
	Props       *Schema
}

type renderTool struct {
	spec ComponentSpec
}

func (c ComponentSpec) renderTool() Tool {
	return &renderTool{spec: c}
}

func (r *renderTool) Name() string        { return renderPrefix + r.spec.Name }
func (r *renderTool) Description() string { return "Display a " + r.spec.Name + " card. " + r.spec.Description }
func (r *renderTool) Parameters() *Schema { return r.spec.Props }

// Call checks the props against the component schema and returns the
// Component to render
func (r *renderTool) Call(_ context.Context, args json.RawMessage) (any, error) {
	props := map[string]any{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &props); err != nil {
			return nil, fmt.Errorf("invalid props for %s: %w", r.spec.Name, err)
		}
	}
	if props == nil {
		props = map[string]any{}
	}

	if err := checkProps(r.spec.Props, props); err != nil {
		return nil, fmt.Errorf("invalid props for %s: %w", r.spec.Name, err)
	}
	return &Component{Name: r.spec.Name, Props: props}, nil
}

// checkProps verifies required keys and enum values one level deep
func checkProps(schema *Schema, props map[string]any) error {
	if schema == nil {
		return nil
	}
	for _, key := range schema.Required {
		if v, ok := props[key]; !ok || v == nil {
			return fmt.Errorf("missing %q", key)
		}
	}
	for key, v := range props {
		prop, ok := schema.Properties[key]
		if !ok || len(prop.Enum) == 0 {
			continue
		}
		s, _ := v.(string)
		if !slices.Contains(prop.Enum, s) {
			return fmt.Errorf("%q must be one of %v", key, prop.Enum)
		}
	}
	return nil
}

// ButlerComponents are the cards the logging assistant can show
var ButlerComponents = []ComponentSpec{
	{
		Name:        "ExerciseLogCard",
		Description: "Confirms a logged exercise with sets, reps, weight and date.",
		Props: object(map[string]*Schema{
			"exerciseName": str("Name of the exercise"),
			"sets":         integer("Number of sets"),
			"reps":         integer("Reps per set"),
			"weight":       number("Weight in kg"),
			"duration":     number("Duration in minutes"),
			"date":         str("Date of the exercise, YYYY-MM-DD"),
			"notes":        str("Additional notes"),
		}),
	},
	{
		Name:        "MealLogCard",
		Description: "Confirms a logged meal with calories and macros.",
		Props: object(map[string]*Schema{
			"foodName": str("Name of the food"),
			"mealType": enum("Type of meal", "breakfast", "lunch", "dinner", "snack"),
			"quantity": str("Quantity eaten"),
			"calories": number("Calories"),
			"protein":  number("Protein in grams"),
			"carbs":    number("Carbohydrates in grams"),
			"fat":      number("Fat in grams"),
			"date":     str("Date of the meal, YYYY-MM-DD"),
		}, "foodName", "mealType", "calories", "protein", "carbs", "fat", "date"),
	},
	{
		Name:        "DailyProgressCard",
		Description: "Summarises a day: exercises done, calories and macros against the target.",
		Props: object(map[string]*Schema{
			"date":          str("Date of the summary"),
			"exerciseCount": integer("Exercises completed"),
			"totalCalories": number("Calories consumed"),
			"totalProtein":  number("Protein in grams"),
			"totalCarbs":    number("Carbohydrates in grams"),
			"totalFat":      number("Fat in grams"),
			"calorieTarget": number("Daily calorie target"),
		}, "exerciseCount", "totalCalories", "totalProtein", "totalCarbs", "totalFat", "calorieTarget"),
	},
	{
		Name:        "ExerciseSuggestionList",
		Description: "Lists suggested exercises for a body part or piece of equipment.",
		Props: object(map[string]*Schema{
			"title":     str("Heading for the list"),
			"bodyPart":  str("Body part filter used"),
			"equipment": str("Equipment filter used"),
			"exercises": array(object(map[string]*Schema{
				"id":           str("ExerciseDB id"),
				"name":         str("Exercise name"),
				"bodyPart":     str("Target body part"),
				"equipment":    str("Required equipment"),
				"gifUrl":       str("Animation URL"),
				"instructions": array(str(""), "Step by step instructions"),
			}, "name"), "Suggested exercises"),
		}, "exercises"),
	},
}

// TrainerComponents are the cards the coaching assistant can show
var TrainerComponents = []ComponentSpec{
	{
		Name:        "WorkoutPlanCard",
		Description: "Shows a workout plan with its exercises, sets, reps and rest.",
		Props: object(map[string]*Schema{
			"planName":          str("Name of the plan"),
			"description":       str("What the plan is for"),
			"targetGoal":        str("Fitness goal the plan serves"),
			"estimatedDuration": number("Estimated duration in minutes"),
			"exercises": array(object(map[string]*Schema{
				"name":        str("Exercise name"),
				"sets":        integer("Number of sets"),
				"reps":        integer("Reps per set"),
				"restSeconds": integer("Rest between sets in seconds"),
				"notes":       str("Notes for this exercise"),
			}, "name", "sets", "reps", "restSeconds"), "Exercises in order"),
		}, "planName", "exercises"),
	},
	{
		Name:        "ExerciseAdviceCard",
		Description: "Explains how to perform an exercise well.",
		Props: object(map[string]*Schema{
			"exerciseName":   str("Name of the exercise"),
			"targetMuscles":  array(str(""), "Primary muscles worked"),
			"formTips":       array(str(""), "Tips for good form"),
			"commonMistakes": array(str(""), "Mistakes to avoid"),
			"variations":     array(str(""), "Easier or harder variations"),
			"safetyNotes":    str("Safety considerations"),
		}, "exerciseName", "targetMuscles", "formTips", "commonMistakes"),
	},
	{
		Name:        "FormCorrectionCard",
		Description: "Lists corrections to the user's technique on an exercise.",
		Props: object(map[string]*Schema{
			"exerciseName":      str("Name of the exercise"),
			"overallAssessment": str("Overall assessment of the user's form"),
			"corrections": array(object(map[string]*Schema{
				"issue":      str("The problem"),
				"correction": str("How to fix it"),
				"importance": enum("How much it matters", "critical", "important", "minor"),
			}, "issue", "correction", "importance"), "Corrections to make"),
			"doList":   array(str(""), "Things to keep doing"),
			"dontList": array(str(""), "Things to stop doing"),
		}, "exerciseName", "overallAssessment", "corrections", "doList", "dontList"),
	},
}
