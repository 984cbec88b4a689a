package assistant

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"fittrack/internal/metrics"
)

// fakeGenerator replays scripted responses and records each request
type fakeGenerator struct {
	responses []*genai.GenerateContentResponse
	requests  [][]*genai.Content
	err       error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.requests = append(f.requests, slices.Clone(contents))
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return nil, errors.New("no scripted response left")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func respond(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromParts(parts, genai.RoleModel)}},
	}
}

func text(s string) *genai.Part {
	return genai.NewPartFromText(s)
}

func functionCall(name string, args map[string]any) *genai.Part {
	return &genai.Part{FunctionCall: &genai.FunctionCall{ID: "call-" + name, Name: name, Args: args}}
}

func setupAgent(t *testing.T, responses ...*genai.GenerateContentResponse) (*GeminiAgent, *fakeGenerator, *Thread) {
	t.Helper()

	svc := setupService(t)
	gen := &fakeGenerator{responses: responses}
	agent := NewGeminiAgent(gen, "gemini-test", ButlerPersona(svc, nil))

	thread, err := NewThreadStore().Open(Butler, "")
	require.NoError(t, err)
	return agent, gen, thread
}

func TestRespondText(t *testing.T) {
	agent, gen, thread := setupAgent(t, respond(text("Hello! "), text("What did you eat?")))

	reply, err := agent.Respond(context.Background(), thread, "hi")
	require.NoError(t, err)

	assert.Equal(t, thread.ID, reply.ThreadID)
	assert.Equal(t, "Hello! What did you eat?", reply.Text)
	assert.Nil(t, reply.Component)
	assert.Empty(t, reply.ToolCalls)
	assert.Len(t, gen.requests, 1)
	assert.Len(t, thread.Messages(), 2)
}

func TestRespondCallsToolThenAnswers(t *testing.T) {
	agent, gen, thread := setupAgent(t,
		respond(functionCall("logMeal", map[string]any{
			"foodName": "chicken rice", "mealType": "lunch",
			"calories": 650.0, "protein": 35.0, "carbs": 80.0, "fat": 18.0,
		})),
		respond(text("Logged your lunch.")),
	)

	reply, err := agent.Respond(context.Background(), thread, "I had chicken rice for lunch")
	require.NoError(t, err)

	assert.Equal(t, "Logged your lunch.", reply.Text)
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "logMeal", reply.ToolCalls[0].Name)
	assert.Empty(t, reply.ToolCalls[0].Error)

	// user, model call, function response
	require.Len(t, gen.requests, 2)
	second := gen.requests[1]
	require.Len(t, second, 3)
	assert.Equal(t, genai.RoleUser, second[2].Role)

	fr := second[2].Parts[0].FunctionResponse
	require.NotNil(t, fr)
	assert.Equal(t, "logMeal", fr.Name)
	assert.Equal(t, "call-logMeal", fr.ID)
	logged, ok := fr.Response["output"].(*mealLogged)
	require.True(t, ok, "Expected mealLogged output, got %T", fr.Response["output"])
	assert.True(t, logged.Success)

	meals, err := agent.persona.Tools[3].Call(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, meals.(*dailyMeals).Meals, 1)
}

func TestRespondFeedsToolErrorsBack(t *testing.T) {
	agent, gen, thread := setupAgent(t,
		respond(functionCall("logExercise", map[string]any{"exerciseName": "Squat", "sets": 0.0, "reps": 5.0})),
		respond(functionCall("doesNotExist", nil)),
		respond(text("Sorry, how many sets?")),
	)

	reply, err := agent.Respond(context.Background(), thread, "did squats")
	require.NoError(t, err)

	require.Len(t, reply.ToolCalls, 2)
	assert.NotEmpty(t, reply.ToolCalls[0].Error)
	assert.Contains(t, reply.ToolCalls[1].Error, "unknown tool")
	assert.JSONEq(t, `{}`, string(reply.ToolCalls[1].Args))

	fr := gen.requests[1][2].Parts[0].FunctionResponse
	assert.Contains(t, fr.Response, "error")
	assert.NotContains(t, fr.Response, "output")
}

func TestRespondComponentEndsTurn(t *testing.T) {
	before := testutil.ToFloat64(metrics.AssistantTurnsTotal.WithLabelValues(Butler, metrics.OutcomeComponent))

	agent, gen, thread := setupAgent(t,
		respond(text("Here is today."), functionCall("showDailyProgressCard", map[string]any{
			"exerciseCount": 2.0, "totalCalories": 1500.0, "totalProtein": 90.0,
			"totalCarbs": 150.0, "totalFat": 50.0, "calorieTarget": 2000.0,
		})),
	)

	reply, err := agent.Respond(context.Background(), thread, "how am I doing?")
	require.NoError(t, err)

	require.NotNil(t, reply.Component)
	assert.Equal(t, "DailyProgressCard", reply.Component.Name)
	assert.Equal(t, 1500.0, reply.Component.Props["totalCalories"])
	assert.Equal(t, "Here is today.", reply.Text)
	assert.Len(t, gen.requests, 1, "A rendered component ends the turn")

	history := thread.state.([]*genai.Content)
	require.Len(t, history, 4)
	assert.Equal(t, genai.RoleModel, history[3].Role)

	msgs := thread.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, reply.Component, msgs[1].Component)

	after := testutil.ToFloat64(metrics.AssistantTurnsTotal.WithLabelValues(Butler, metrics.OutcomeComponent))
	assert.Equal(t, before+1, after)
}

func TestRespondKeepsHistoryAcrossTurns(t *testing.T) {
	agent, gen, thread := setupAgent(t, respond(text("Hi")), respond(text("Still here")))

	_, err := agent.Respond(context.Background(), thread, "hello")
	require.NoError(t, err)
	_, err = agent.Respond(context.Background(), thread, "you there?")
	require.NoError(t, err)

	require.Len(t, gen.requests, 2)
	assert.Len(t, gen.requests[1], 3)
	assert.Equal(t, "hello", gen.requests[1][0].Parts[0].Text)
	assert.Len(t, thread.Messages(), 4)
}

func TestRespondToolRoundLimit(t *testing.T) {
	var responses []*genai.GenerateContentResponse
	for range maxToolRounds + 1 {
		responses = append(responses, respond(functionCall("getWeeklyStats", nil)))
	}
	agent, gen, thread := setupAgent(t, responses...)

	before := testutil.ToFloat64(metrics.AssistantTurnsTotal.WithLabelValues(Butler, metrics.OutcomeToolLimit))

	_, err := agent.Respond(context.Background(), thread, "stats please")
	assert.ErrorIs(t, err, ErrToolRoundsExceeded)
	assert.Len(t, gen.requests, maxToolRounds)
	assert.Empty(t, thread.Messages())
	assert.Nil(t, thread.state, "An abandoned turn leaves the history untouched")

	after := testutil.ToFloat64(metrics.AssistantTurnsTotal.WithLabelValues(Butler, metrics.OutcomeToolLimit))
	assert.Equal(t, before+1, after)
}

func TestRespondGeneratorError(t *testing.T) {
	agent, gen, thread := setupAgent(t)
	gen.err = errors.New("quota exceeded")

	_, err := agent.Respond(context.Background(), thread, "hi")
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Empty(t, thread.Messages())
}

func TestRespondRejectsForeignThread(t *testing.T) {
	agent, _, _ := setupAgent(t)

	thread, err := NewThreadStore().Open(Trainer, "")
	require.NoError(t, err)

	_, err = agent.Respond(context.Background(), thread, "hi")
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

func TestAgentDeclaresEveryTool(t *testing.T) {
	agent, _, _ := setupAgent(t)

	require.Len(t, agent.config.Tools, 1)
	var names []string
	for _, d := range agent.config.Tools[0].FunctionDeclarations {
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "logMeal")
	assert.Contains(t, names, "showMealLogCard")
	assert.Len(t, names, len(agent.tools))
}
