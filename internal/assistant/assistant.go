// Package assistant hosts the chat assistants. An assistant is a persona
// (instructions, tools and renderable components) driven by a language
// model runtime behind the Agent interface.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
)

// Assistant names
const (
	Butler  = "butler"
	Trainer = "trainer"
)

// ErrToolRoundsExceeded is returned when the model keeps calling tools
// without producing an answer
var ErrToolRoundsExceeded = errors.New("assistant: too many tool rounds in one turn")

// Agent answers one user utterance within a thread
type Agent interface {
	Respond(ctx context.Context, thread *Thread, utterance string) (*Reply, error)
}

// Component is an instruction to render a named UI card with props
type Component struct {
	Name  string         `json:"name"`
	Props map[string]any `json:"props"`
}

// ToolCall records one tool invocation made during a turn
type ToolCall struct {
	Name  string          `json:"name"`
	Args  json.RawMessage `json:"args,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Reply is the outcome of one turn. It carries text, a component, or both.
type Reply struct {
	ThreadID  string     `json:"threadId"`
	Text      string     `json:"text,omitempty"`
	Component *Component `json:"component,omitempty"`
	ToolCalls []ToolCall `json:"toolCalls"`
}

// Persona is everything that distinguishes one assistant from another
type Persona struct {
	Name         string
	Instructions string
	Tools        []Tool
	Components   []ComponentSpec
}

// AllTools returns the data tools followed by one render tool per component
func (p Persona) AllTools() []Tool {
	tools := make([]Tool, 0, len(p.Tools)+len(p.Components))
	tools = append(tools, p.Tools...)
	for _, c := range p.Components {
		tools = append(tools, c.renderTool())
	}
	return tools
}
