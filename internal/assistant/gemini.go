package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"google.golang.org/genai"

	"fittrack/internal/metrics"
)

// maxToolRounds bounds the model round-trips in a single turn
const maxToolRounds = 8

// generator is the slice of the genai client the agent needs
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiClient creates a Gemini API client
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

// GeminiAgent runs a persona on Gemini function calling
type GeminiAgent struct {
	models  generator
	model   string
	persona Persona
	tools   toolset
	config  *genai.GenerateContentConfig
	logger  *slog.Logger
}

// NewGeminiAgent creates an agent for persona. models is usually
// (*genai.Client).Models.
func NewGeminiAgent(models generator, model string, persona Persona) *GeminiAgent {
	tools := persona.AllTools()

	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters().toGenai(),
		})
	}

	return &GeminiAgent{
		models:  models,
		model:   model,
		persona: persona,
		tools:   newToolset(tools),
		config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(persona.Instructions, genai.RoleUser),
			Tools:             []*genai.Tool{{FunctionDeclarations: decls}},
		},
		logger: slog.Default().With("assistant", persona.Name),
	}
}

// Respond runs one turn. The model may call tools up to maxToolRounds times;
// a render tool ends the turn with its component. The thread's history only
// advances when the turn completes.
func (a *GeminiAgent) Respond(ctx context.Context, thread *Thread, utterance string) (*Reply, error) {
	if thread.Assistant != a.persona.Name {
		return nil, ErrThreadNotFound
	}

	thread.mu.Lock()
	defer thread.mu.Unlock()

	history, _ := thread.state.([]*genai.Content)
	contents := append(slices.Clip(history), genai.NewContentFromText(utterance, genai.RoleUser))
	reply := &Reply{ThreadID: thread.ID, ToolCalls: []ToolCall{}}

	for round := 0; round < maxToolRounds; round++ {
		resp, err := a.models.GenerateContent(ctx, a.model, contents, a.config)
		if err != nil {
			a.countTurn(metrics.OutcomeError)
			return nil, fmt.Errorf("failed to generate content: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			a.countTurn(metrics.OutcomeError)
			return nil, errors.New("model returned no candidates")
		}

		content := resp.Candidates[0].Content
		contents = append(contents, content)

		calls := functionCalls(content)
		if len(calls) == 0 {
			reply.Text = textOf(content)
			a.commit(thread, contents, utterance, reply, metrics.OutcomeText)
			return reply, nil
		}

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			response, record, component := a.invoke(ctx, call)
			reply.ToolCalls = append(reply.ToolCalls, record)
			if component != nil {
				reply.Component = component
			}

			part := genai.NewPartFromFunctionResponse(call.Name, response)
			part.FunctionResponse.ID = call.ID
			parts = append(parts, part)
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))

		if reply.Component != nil {
			reply.Text = textOf(content)
			contents = append(contents, genai.NewContentFromText("Displayed "+reply.Component.Name+".", genai.RoleModel))
			a.commit(thread, contents, utterance, reply, metrics.OutcomeComponent)
			return reply, nil
		}

		a.logger.Debug("Tool round complete", "thread_id", thread.ID, "round", round+1, "calls", len(calls))
	}

	a.countTurn(metrics.OutcomeToolLimit)
	a.logger.Warn("Turn abandoned", "thread_id", thread.ID, "rounds", maxToolRounds)
	return nil, ErrToolRoundsExceeded
}

// invoke runs one function call and returns the response to send back to
// the model, the record for the reply and any component it rendered
func (a *GeminiAgent) invoke(ctx context.Context, call *genai.FunctionCall) (map[string]any, ToolCall, *Component) {
	record := ToolCall{Name: call.Name}

	args, err := json.Marshal(call.Args)
	if err != nil {
		record.Error = fmt.Sprintf("failed to encode arguments: %v", err)
		a.countTool(call.Name, metrics.ResultFailure)
		return map[string]any{"error": record.Error}, record, nil
	}
	if call.Args == nil {
		args = []byte("{}")
	}
	record.Args = args

	tool, ok := a.tools[call.Name]
	if !ok {
		record.Error = fmt.Sprintf("unknown tool %q", call.Name)
		a.countTool(call.Name, metrics.ResultFailure)
		return map[string]any{"error": record.Error}, record, nil
	}

	result, err := tool.Call(ctx, args)
	if err != nil {
		record.Error = err.Error()
		a.countTool(call.Name, metrics.ResultFailure)
		a.logger.Info("Tool call failed", "tool", call.Name, "error", err)
		return map[string]any{"error": record.Error}, record, nil
	}

	a.countTool(call.Name, metrics.ResultSuccess)
	if c, ok := result.(*Component); ok {
		return map[string]any{"output": "rendered " + c.Name}, record, c
	}
	return map[string]any{"output": result}, record, nil
}

func (a *GeminiAgent) commit(thread *Thread, contents []*genai.Content, utterance string, reply *Reply, outcome string) {
	thread.state = contents
	thread.record(utterance, reply)
	a.countTurn(outcome)
	a.logger.Debug("Turn complete", "thread_id", thread.ID, "outcome", outcome, "tool_calls", len(reply.ToolCalls))
}

func (a *GeminiAgent) countTurn(outcome string) {
	metrics.AssistantTurnsTotal.WithLabelValues(a.persona.Name, outcome).Inc()
}

func (a *GeminiAgent) countTool(tool, result string) {
	metrics.AssistantToolCallsTotal.WithLabelValues(a.persona.Name, tool, result).Inc()
}

func functionCalls(c *genai.Content) []*genai.FunctionCall {
	var calls []*genai.FunctionCall
	for _, p := range c.Parts {
		if p != nil && p.FunctionCall != nil {
			calls = append(calls, p.FunctionCall)
		}
	}
	return calls
}

// textOf joins the visible text parts of c
func textOf(c *genai.Content) string {
	var texts []string
	for _, p := range c.Parts {
		if p == nil || p.Text == "" || p.Thought {
			continue
		}
		texts = append(texts, p.Text)
	}
	return strings.Join(texts, "")
}
