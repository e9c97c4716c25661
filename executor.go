package reagent

import (
	"context"
	"encoding/json"
	"fmt"
)

// Metadata keys written by the executor.
const (
	MetaTaskPrompt  = "task_prompt"
	MetaTask        = "task"
	MetaFinalAnswer = "final_answer"
	MetaRationale   = "rationale"
)

// DefaultMaxTurns bounds a run when the configuration does not say
// otherwise. Each turn is one model call plus at most one tool dispatch.
const DefaultMaxTurns = 12

// ExecutorConfig tunes a single Executor. Zero values are replaced with
// the defaults from DefaultExecutorConfig.
type ExecutorConfig struct {
	// MaxTurns is the hard turn budget. The run fails with
	// ErrTurnsExceeded once it is spent without a final answer.
	MaxTurns int

	// SystemPrompt is prepended to every model call, followed by the
	// parser's format instruction. It is never stored in memory.
	SystemPrompt string

	// Renderer builds the task prompt appended to memory on the first
	// run for a task.
	Renderer PromptRenderer
}

// DefaultExecutorConfig returns the configuration used by NewExecutor.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxTurns:     DefaultMaxTurns,
		SystemPrompt: DefaultSystemPrompt,
		Renderer:     BuildTaskPrompt,
	}
}

// Executor drives the turn loop for one task: it calls the model,
// parses the reply into a decision, dispatches tool calls, and stops on
// a finish or on budget exhaustion. Memory is append-only; the executor
// never rewrites messages it did not add in the same call.
//
// An Executor is safe for concurrent use as long as each Run gets its
// own Memory.
type Executor struct {
	client ChatClient
	tools  *Registry
	parser Parser
	config ExecutorConfig
	hooks  Hooks
}

// NewExecutor creates an Executor with DefaultExecutorConfig and no
// hooks.
func NewExecutor(client ChatClient, tools *Registry, parser Parser) *Executor {
	return &Executor{
		client: client,
		tools:  tools,
		parser: parser,
		config: DefaultExecutorConfig(),
		hooks:  NopHooks{},
	}
}

// WithConfig replaces the configuration. Zero fields fall back to the
// defaults. Returns the same Executor for chaining.
func (e *Executor) WithConfig(config ExecutorConfig) *Executor {
	if config.MaxTurns <= 0 {
		config.MaxTurns = DefaultMaxTurns
	}
	if config.SystemPrompt == "" {
		config.SystemPrompt = DefaultSystemPrompt
	}
	if config.Renderer == nil {
		config.Renderer = BuildTaskPrompt
	}
	e.config = config
	return e
}

// WithHooks installs lifecycle hooks. Returns the same Executor for
// chaining.
func (e *Executor) WithHooks(hooks Hooks) *Executor {
	if hooks == nil {
		hooks = NopHooks{}
	}
	e.hooks = hooks
	return e
}

// Run executes the turn loop for task against memory. The plan may be
// empty. On success the returned finish's Output is also recorded in
// memory as the last assistant message, tagged with MetaFinalAnswer.
//
// All errors are fatal: the model transport, the parser, and tool
// dispatch are never retried. Memory keeps everything appended before
// the failure, so a caller can inspect the partial trajectory.
func (e *Executor) Run(ctx context.Context, task string, memory *Memory, plan Plan) (*AgentFinish, error) {
	e.prime(memory, task, plan)

	system := e.config.SystemPrompt
	if instruction := e.parser.Instruction(); instruction != "" {
		system += "\n\n" + instruction
	}

	for turn := 1; turn <= e.config.MaxTurns; turn++ {
		e.hooks.OnTurnStart(ctx, turn)

		messages := append(
			[]Message{SystemMessage(system)},
			memory.Snapshot()...,
		)
		response, err := e.client.Chat(ctx, messages)
		if err != nil {
			return nil, err
		}
		e.hooks.OnModelResponse(ctx, turn, response)
		memory.Append(AssistantMessage(response.Content))

		decision, err := e.parser.Parse(response.Content)
		if err != nil {
			return nil, err
		}

		switch decision.Kind {
		case DecisionFinish:
			finish := decision.Finish
			if finish.Rationale == FallbackRationale {
				finish = summarizeFallback(memory.Snapshot(), finish)
			}
			e.recordFinalAnswer(memory, finish)
			e.hooks.OnFinish(ctx, finish)
			return finish, nil

		case DecisionToolCall:
			action := decision.Action
			memory.Append(invocationMessage(action))
			finish, err := e.dispatch(ctx, action, memory)
			if err != nil {
				return nil, err
			}
			if finish != nil {
				e.recordFinalAnswer(memory, finish)
				e.hooks.OnFinish(ctx, finish)
				return finish, nil
			}

		default:
			return nil, &ParseError{
				Raw: response.Content,
				Err: fmt.Errorf("parser returned no decision"),
			}
		}
	}

	return nil, ErrTurnsExceeded
}

// prime appends the rendered task prompt unless memory already holds a
// task prompt for the same task. Re-running the same task against the
// same memory therefore never duplicates the prompt.
func (e *Executor) prime(memory *Memory, task string, plan Plan) {
	for _, msg := range memory.Snapshot() {
		if msg.MetaBool(MetaTaskPrompt) && msg.MetaString(MetaTask) == task {
			return
		}
	}

	planText := ""
	if !plan.IsEmpty() {
		planText = plan.Describe()
	}
	toolsText := ""
	if e.tools != nil {
		toolsText = e.tools.Describe()
	}

	msg := UserMessage(e.config.Renderer(task, planText, toolsText))
	msg.Metadata = map[string]any{
		MetaTaskPrompt: true,
		MetaTask:       task,
	}
	memory.Append(msg)
}

// dispatch resolves and invokes the tool named by action, appending the
// observation to memory under the action's call id. A non-nil finish is
// returned when the tool is marked return-direct.
func (e *Executor) dispatch(ctx context.Context, action *AgentAction, memory *Memory) (*AgentFinish, error) {
	tool, err := e.tools.Get(action.Tool)
	if err != nil {
		return nil, err
	}
	if err := e.tools.ValidateArguments(action.Tool, action.Arguments); err != nil {
		return nil, &ToolExecutionError{Tool: action.Tool, Err: err}
	}

	e.hooks.OnToolCall(ctx, action)
	result, err := tool.Invoke(ctx, action.Arguments)
	if err != nil {
		return nil, &ToolExecutionError{Tool: action.Tool, Err: err}
	}
	e.hooks.OnObservation(ctx, action, result)

	memory.Append(ToolMessage(result.Content, tool.Name(), action.CallID, result.Metadata))

	if tool.ReturnDirect() {
		return &AgentFinish{
			Output:    result.Content,
			Rationale: action.Rationale,
		}, nil
	}
	return nil, nil
}

// recordFinalAnswer tags the final answer in memory. When the last
// message is already the assistant message carrying exactly this
// output, only its metadata is updated; otherwise a fresh assistant
// message is appended.
func (e *Executor) recordFinalAnswer(memory *Memory, finish *AgentFinish) {
	metadata := map[string]any{
		MetaFinalAnswer: true,
		MetaRationale:   finish.Rationale,
	}
	if last, ok := memory.Last(); ok && last.Role == RoleAssistant && last.Content == finish.Output {
		memory.MergeLastMetadata(metadata)
		return
	}
	msg := AssistantMessage(finish.Output)
	msg.Metadata = metadata
	memory.Append(msg)
}

// invocationMessage renders a tool decision as the assistant message
// that precedes its observation. The rationale becomes the content so
// the model sees its own reasoning on the next turn.
func invocationMessage(action *AgentAction) Message {
	encoded, err := json.Marshal(action.Arguments)
	if err != nil {
		encoded = []byte("{}")
	}
	msg := AssistantMessage(action.Rationale)
	msg.ToolCalls = []ToolCall{{
		ID:        action.CallID,
		Name:      action.Tool,
		Arguments: string(encoded),
	}}
	return msg
}
