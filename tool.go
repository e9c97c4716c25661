package reagent

import (
	"context"
)

// Tool is a callable capability exposed to the model.
//
// Responsibility split mirrors the rest of the engine: tools implement
// business logic only. The executor resolves them by name, the parser
// produces their argument objects, and the registry renders their catalog
// for prompts.
type Tool interface {
	// Name returns the tool's unique identifier used in tool calls.
	Name() string

	// Description returns a human-readable description for the LLM.
	Description() string

	// ParameterSchema returns the JSON Schema for the tool's arguments.
	// Returns nil when the tool takes no structured arguments.
	ParameterSchema() map[string]any

	// ReturnDirect reports whether this tool's result terminates the run
	// directly, without a further model round-trip.
	ReturnDirect() bool

	// Invoke executes the tool with the parsed argument object.
	Invoke(ctx context.Context, args map[string]any) (*ToolResult, error)
}

// ToolResult is the structured response produced by a tool.
type ToolResult struct {
	// Content is the textual result recorded as the observation.
	Content string

	// Metadata is carried onto the observation message unchanged.
	Metadata map[string]any
}

// ToolFunc adapts a plain function into a [Tool].
type ToolFunc struct {
	name         string
	description  string
	schema       map[string]any
	returnDirect bool
	fn           func(ctx context.Context, args map[string]any) (*ToolResult, error)
}

// NewToolFunc creates a Tool from a function. The schema may be nil for
// tools without structured arguments.
func NewToolFunc(
	name, description string,
	schema map[string]any,
	fn func(ctx context.Context, args map[string]any) (*ToolResult, error),
) *ToolFunc {
	return &ToolFunc{
		name:        name,
		description: description,
		schema:      schema,
		fn:          fn,
	}
}

// WithReturnDirect marks the tool's result as the run's final answer.
// Returns the tool for chaining.
func (t *ToolFunc) WithReturnDirect() *ToolFunc {
	t.returnDirect = true
	return t
}

// Name returns the tool's identifier.
func (t *ToolFunc) Name() string {
	return t.name
}

// Description returns a human-readable description for the LLM.
func (t *ToolFunc) Description() string {
	return t.description
}

// ParameterSchema returns the JSON Schema for the tool's arguments.
func (t *ToolFunc) ParameterSchema() map[string]any {
	return t.schema
}

// ReturnDirect reports whether the tool's result terminates the run.
func (t *ToolFunc) ReturnDirect() bool {
	return t.returnDirect
}

// Invoke executes the wrapped function.
func (t *ToolFunc) Invoke(ctx context.Context, args map[string]any) (*ToolResult, error) {
	return t.fn(ctx, args)
}
