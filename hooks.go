package reagent

import (
	"context"
	"log/slog"
)

// Hooks observes the executor's turn loop. All methods are called
// synchronously from the single active run; implementations must not block
// for long and cannot alter the run's behavior.
type Hooks interface {
	// OnTurnStart fires before each model round-trip. Turns count from 1.
	OnTurnStart(ctx context.Context, turn int)

	// OnModelResponse fires after each successful model call.
	OnModelResponse(ctx context.Context, turn int, response *ChatResponse)

	// OnToolCall fires before a tool is dispatched.
	OnToolCall(ctx context.Context, action *AgentAction)

	// OnObservation fires after a tool returned successfully.
	OnObservation(ctx context.Context, action *AgentAction, result *ToolResult)

	// OnFinish fires once when the run terminates with a final answer.
	OnFinish(ctx context.Context, finish *AgentFinish)
}

// NopHooks is a Hooks implementation that does nothing. Embed it to
// implement only the callbacks you care about.
type NopHooks struct{}

func (NopHooks) OnTurnStart(context.Context, int)                         {}
func (NopHooks) OnModelResponse(context.Context, int, *ChatResponse)      {}
func (NopHooks) OnToolCall(context.Context, *AgentAction)                 {}
func (NopHooks) OnObservation(context.Context, *AgentAction, *ToolResult) {}
func (NopHooks) OnFinish(context.Context, *AgentFinish)                   {}

// SlogHooks logs the turn loop through a structured logger.
type SlogHooks struct {
	logger *slog.Logger
}

// NewSlogHooks creates logging hooks. A nil logger uses slog.Default().
func NewSlogHooks(logger *slog.Logger) *SlogHooks {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogHooks{logger: logger}
}

func (h *SlogHooks) OnTurnStart(ctx context.Context, turn int) {
	h.logger.DebugContext(ctx, "turn start", "turn", turn)
}

func (h *SlogHooks) OnModelResponse(ctx context.Context, turn int, response *ChatResponse) {
	attrs := []any{"turn", turn, "finish_reason", response.FinishReason}
	if response.Usage != nil {
		attrs = append(attrs,
			"input_tokens", response.Usage.InputTokens,
			"output_tokens", response.Usage.OutputTokens,
		)
	}
	h.logger.DebugContext(ctx, "model response", attrs...)
}

func (h *SlogHooks) OnToolCall(ctx context.Context, action *AgentAction) {
	h.logger.InfoContext(ctx, "tool call",
		"tool", action.Tool, "call_id", action.CallID)
}

func (h *SlogHooks) OnObservation(ctx context.Context, action *AgentAction, result *ToolResult) {
	h.logger.InfoContext(ctx, "observation",
		"tool", action.Tool, "call_id", action.CallID, "content", result.Content)
}

func (h *SlogHooks) OnFinish(ctx context.Context, finish *AgentFinish) {
	h.logger.InfoContext(ctx, "finish", "output", finish.Output)
}
