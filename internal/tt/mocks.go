// Package tt holds shared test helpers: scripted mocks for the chat
// client and tools, and transcript assertions.
package tt

import (
	"context"
	"fmt"

	"github.com/reagentkit/reagent"
)

// -----------------------------------------------------------------------------
// ScriptedClient - implements reagent.ChatClient
// -----------------------------------------------------------------------------

// ScriptedClient is a configurable mock that implements
// reagent.ChatClient. Responses and errors are replayed in the order
// they were queued.
type ScriptedClient struct {
	responses []*reagent.ChatResponse
	errors    []error
	callCount int

	// CapturedMessages stores the messages passed to each Chat call.
	// Populated automatically on every call.
	CapturedMessages [][]reagent.Message
}

// NewScriptedClient creates an empty ScriptedClient.
func NewScriptedClient() *ScriptedClient {
	return &ScriptedClient{}
}

// AddResponse queues a response with the given content.
func (c *ScriptedClient) AddResponse(content string) *ScriptedClient {
	c.responses = append(c.responses, &reagent.ChatResponse{Content: content})
	return c
}

// AddResponseWithUsage queues a response with content and token counts.
func (c *ScriptedClient) AddResponseWithUsage(content string, input, output int) *ScriptedClient {
	c.responses = append(c.responses, &reagent.ChatResponse{
		Content: content,
		Usage: &reagent.Usage{
			InputTokens:  input,
			OutputTokens: output,
			TotalTokens:  input + output,
		},
	})
	return c
}

// AddError queues an error for the next call.
func (c *ScriptedClient) AddError(err error) *ScriptedClient {
	for len(c.responses) <= len(c.errors) {
		c.responses = append(c.responses, nil)
	}
	c.errors = append(c.errors, err)
	return c
}

// CallCount returns the number of times Chat has been called.
func (c *ScriptedClient) CallCount() int {
	return c.callCount
}

// Chat implements reagent.ChatClient by replaying the queued script.
// Running past the end of the script fails with an error so a test that
// loops unexpectedly terminates instead of hanging on empty responses.
func (c *ScriptedClient) Chat(_ context.Context, messages []reagent.Message) (*reagent.ChatResponse, error) {
	idx := c.callCount
	c.callCount++
	c.CapturedMessages = append(c.CapturedMessages, messages)

	if idx < len(c.errors) && c.errors[idx] != nil {
		return nil, c.errors[idx]
	}
	if idx >= len(c.responses) || c.responses[idx] == nil {
		return nil, &reagent.TransportError{
			Err: fmt.Errorf("scripted client exhausted after %d calls", idx),
		}
	}
	return c.responses[idx], nil
}

// -----------------------------------------------------------------------------
// ScriptedTool - implements reagent.Tool
// -----------------------------------------------------------------------------

// ScriptedTool is a configurable mock that implements reagent.Tool.
type ScriptedTool struct {
	name         string
	description  string
	schema       map[string]any
	returnDirect bool
	invoke       func(ctx context.Context, args map[string]any) (*reagent.ToolResult, error)

	// CapturedArgs stores the arguments passed to each Invoke call.
	CapturedArgs []map[string]any
}

// NewScriptedTool creates a tool with the given name, a permissive
// object schema and an invoke function that echoes its arguments.
func NewScriptedTool(name string) *ScriptedTool {
	return &ScriptedTool{
		name:        name,
		description: "scripted test tool",
		schema:      map[string]any{"type": "object"},
		invoke: func(_ context.Context, args map[string]any) (*reagent.ToolResult, error) {
			return &reagent.ToolResult{Content: fmt.Sprintf("%v", args)}, nil
		},
	}
}

// WithSchema replaces the parameter schema.
func (t *ScriptedTool) WithSchema(schema map[string]any) *ScriptedTool {
	t.schema = schema
	return t
}

// WithResult makes every invocation return the fixed content.
func (t *ScriptedTool) WithResult(content string) *ScriptedTool {
	t.invoke = func(context.Context, map[string]any) (*reagent.ToolResult, error) {
		return &reagent.ToolResult{Content: content}, nil
	}
	return t
}

// WithError makes every invocation fail with err.
func (t *ScriptedTool) WithError(err error) *ScriptedTool {
	t.invoke = func(context.Context, map[string]any) (*reagent.ToolResult, error) {
		return nil, err
	}
	return t
}

// WithFunc replaces the invoke function.
func (t *ScriptedTool) WithFunc(fn func(ctx context.Context, args map[string]any) (*reagent.ToolResult, error)) *ScriptedTool {
	t.invoke = fn
	return t
}

// WithReturnDirect marks the tool's observation as the final answer.
func (t *ScriptedTool) WithReturnDirect() *ScriptedTool {
	t.returnDirect = true
	return t
}

func (t *ScriptedTool) Name() string                    { return t.name }
func (t *ScriptedTool) Description() string             { return t.description }
func (t *ScriptedTool) ParameterSchema() map[string]any { return t.schema }
func (t *ScriptedTool) ReturnDirect() bool              { return t.returnDirect }

func (t *ScriptedTool) Invoke(ctx context.Context, args map[string]any) (*reagent.ToolResult, error) {
	t.CapturedArgs = append(t.CapturedArgs, args)
	return t.invoke(ctx, args)
}

var (
	_ reagent.ChatClient = (*ScriptedClient)(nil)
	_ reagent.Tool       = (*ScriptedTool)(nil)
)
