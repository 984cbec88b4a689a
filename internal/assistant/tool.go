package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Tool is a named operation the model may invoke
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the input schema, or nil when the tool takes none
	Parameters() *Schema
	Call(ctx context.Context, args json.RawMessage) (any, error)
}

type funcTool[In, Out any] struct {
	name        string
	description string
	params      *Schema
	fn          func(ctx context.Context, in In) (Out, error)
}

// NewTool wraps a typed function as a Tool. Arguments are decoded into In
// and checked against its validate tags before fn runs.
func NewTool[In, Out any](name, description string, params *Schema, fn func(ctx context.Context, in In) (Out, error)) Tool {
	return &funcTool[In, Out]{name: name, description: description, params: params, fn: fn}
}

func (t *funcTool[In, Out]) Name() string        { return t.name }
func (t *funcTool[In, Out]) Description() string { return t.description }
func (t *funcTool[In, Out]) Parameters() *Schema { return t.params }

func (t *funcTool[In, Out]) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var in In
	if len(args) > 0 {
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", t.name, err)
		}
	}
	if err := validate.Struct(in); err != nil {
		if _, ok := err.(*validator.InvalidValidationError); !ok {
			return nil, fmt.Errorf("invalid arguments for %s: %w", t.name, err)
		}
	}
	return t.fn(ctx, in)
}

// toolset indexes tools by name
type toolset map[string]Tool

func newToolset(tools []Tool) toolset {
	ts := make(toolset, len(tools))
	for _, t := range tools {
		ts[t.Name()] = t
	}
	return ts
}
