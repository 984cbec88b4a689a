package assistant

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderToolReturnsComponent(t *testing.T) {
	tool := ButlerComponents[1].renderTool()
	require.Equal(t, "showMealLogCard", tool.Name())

	out, err := tool.Call(context.Background(), json.RawMessage(`{
		"foodName": "chicken rice", "mealType": "lunch", "calories": 650,
		"protein": 35, "carbs": 80, "fat": 18, "date": "2026-02-04"
	}`))
	require.NoError(t, err)

	c, ok := out.(*Component)
	require.True(t, ok, "Expected *Component, got %T", out)
	assert.Equal(t, "MealLogCard", c.Name)
	assert.Equal(t, "chicken rice", c.Props["foodName"])
	assert.Equal(t, 650.0, c.Props["calories"])
}

func TestRenderToolChecksProps(t *testing.T) {
	tool := ButlerComponents[1].renderTool()

	tests := []struct {
		name string
		args string
	}{
		{"missing required", `{"foodName":"toast","mealType":"breakfast"}`},
		{"null required", `{"foodName":null,"mealType":"lunch","calories":1,"protein":1,"carbs":1,"fat":1,"date":"2026-02-04"}`},
		{"bad enum", `{"foodName":"toast","mealType":"brunch","calories":1,"protein":1,"carbs":1,"fat":1,"date":"2026-02-04"}`},
		{"not an object", `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tool.Call(context.Background(), json.RawMessage(tt.args))
			assert.Error(t, err)
		})
	}
}

func TestRenderToolWithoutRequiredProps(t *testing.T) {
	// every ExerciseLogCard prop is optional
	out, err := ButlerComponents[0].renderTool().Call(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, &Component{Name: "ExerciseLogCard", Props: map[string]any{}}, out)
}

func TestPersonaToolNamesAreUnique(t *testing.T) {
	svc := setupService(t)

	for _, p := range []Persona{ButlerPersona(svc, nil), TrainerPersona(svc)} {
		seen := map[string]bool{}
		for _, tool := range p.AllTools() {
			assert.False(t, seen[tool.Name()], "Duplicate tool %s in %s", tool.Name(), p.Name)
			seen[tool.Name()] = true

			// object parameters must declare at least one property
			if params := tool.Parameters(); params != nil && params.Type == TypeObject {
				assert.NotEmpty(t, params.Properties, "Tool %s has an empty object schema", tool.Name())
			}
		}
		assert.Len(t, seen, len(p.Tools)+len(p.Components))
	}

	butler := newToolset(ButlerPersona(svc, nil).AllTools())
	for _, name := range []string{"logExercise", "getDailyExercises", "logMeal", "getDailyMeals", "getDailyProgress", "getWeeklyStats", "suggestExercises", "showExerciseLogCard", "showMealLogCard", "showDailyProgressCard", "showExerciseSuggestionList"} {
		assert.Contains(t, butler, name)
	}

	trainer := newToolset(TrainerPersona(svc).AllTools())
	for _, name := range []string{"getUserProfile", "getUserProgressHistory", "createWorkoutPlan", "getWorkoutPlans", "getDailyExercises", "getDailyMeals", "showWorkoutPlanCard", "showExerciseAdviceCard", "showFormCorrectionCard"} {
		assert.Contains(t, trainer, name)
	}
	assert.NotContains(t, trainer, "logMeal")
}

func TestSchemaToGenai(t *testing.T) {
	s := TrainerComponents[2].Props.toGenai()

	assert.Equal(t, "OBJECT", string(s.Type))
	corrections := s.Properties["corrections"]
	require.NotNil(t, corrections)
	assert.Equal(t, "ARRAY", string(corrections.Type))
	assert.Equal(t, []string{"critical", "important", "minor"}, corrections.Items.Properties["importance"].Enum)
	assert.ElementsMatch(t, []string{"exerciseName", "overallAssessment", "corrections", "doList", "dontList"}, s.Required)

	var nilSchema *Schema
	assert.Nil(t, nilSchema.toGenai())
}
