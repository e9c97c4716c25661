// Package agent bundles a chat client, a tool registry, a planner and
// an executor into a ready-to-run ReAct agent. It is the intended entry
// point for callers that do not need to assemble the pieces themselves.
package agent

import (
	"context"
	"errors"

	"github.com/reagentkit/reagent"
	"github.com/reagentkit/reagent/parse"
)

// Config configures an Agent. Client is required; every other field has
// a working default.
type Config struct {
	// Client is the chat model transport. Required.
	Client reagent.ChatClient

	// Tools are registered at construction time. More can be added
	// later with [Agent.AddTool].
	Tools []reagent.Tool

	// Planner decomposes the task before execution. Nil selects an
	// LLM planner over Client.
	Planner reagent.Planner

	// Parser interprets model replies. Nil selects the default
	// three-way parser from the parse package.
	Parser reagent.Parser

	// Executor tunes the turn loop. Zero fields take their defaults.
	Executor reagent.ExecutorConfig

	// Hooks observe the run. Nil disables observation.
	Hooks reagent.Hooks

	// SkipPlanning runs the executor with an empty plan instead of
	// consulting the planner.
	SkipPlanning bool

	// AccumulateMemory carries one conversation across Run calls
	// instead of starting each run from an empty memory.
	AccumulateMemory bool
}

// Agent runs tasks through the plan-then-execute pipeline.
type Agent struct {
	config   Config
	tools    *reagent.Registry
	planner  reagent.Planner
	executor *reagent.Executor
	memory   *reagent.Memory
}

// RunResult is everything a completed run produced.
type RunResult struct {
	Task      string
	Output    string
	Rationale string
	Plan      reagent.Plan
	Messages  []reagent.Message

	// ReasoningLog collects the model's stated reasoning, one entry per
	// decision of this run, in turn order.
	ReasoningLog []string
}

// New builds an Agent from config. It fails when Client is nil or when
// two configured tools share a name.
func New(config Config) (*Agent, error) {
	if config.Client == nil {
		return nil, errors.New("agent: nil chat client")
	}

	tools := reagent.NewRegistry()
	if err := tools.RegisterAll(config.Tools...); err != nil {
		return nil, err
	}

	parser := config.Parser
	if parser == nil {
		parser = parse.New()
	}
	planner := config.Planner
	if planner == nil {
		planner = reagent.NewLLMPlanner(config.Client)
	}

	executor := reagent.NewExecutor(config.Client, tools, parser).
		WithConfig(config.Executor)
	if config.Hooks != nil {
		executor.WithHooks(config.Hooks)
	}

	a := &Agent{
		config:   config,
		tools:    tools,
		planner:  planner,
		executor: executor,
	}
	if config.AccumulateMemory {
		a.memory = reagent.NewMemory()
	}
	return a, nil
}

// Run executes task. With AccumulateMemory the shared conversation is
// used; otherwise the run starts from an empty memory.
func (a *Agent) Run(ctx context.Context, task string) (*RunResult, error) {
	memory := a.memory
	if memory == nil {
		memory = reagent.NewMemory()
	}
	return a.RunWithMemory(ctx, task, memory)
}

// RunWithMemory executes task against an explicit memory, for callers
// that manage conversation state themselves.
func (a *Agent) RunWithMemory(ctx context.Context, task string, memory *reagent.Memory) (*RunResult, error) {
	var plan reagent.Plan
	if !a.config.SkipPlanning {
		p, err := a.planner.Plan(ctx, task, memory, a.tools)
		if err != nil {
			return nil, err
		}
		plan = p
	}

	start := memory.Len()
	finish, err := a.executor.Run(ctx, task, memory, plan)
	if err != nil {
		return nil, err
	}

	messages := memory.Snapshot()
	return &RunResult{
		Task:         task,
		Output:       finish.Output,
		Rationale:    finish.Rationale,
		Plan:         plan,
		Messages:     messages,
		ReasoningLog: reasoningLog(messages[start:], finish),
	}, nil
}

// reasoningLog extracts the rationales stated during one run: one entry
// per tool decision, plus the finish rationale when the model stated
// one. Fallback finishes carry a sentinel rationale, which is not
// reasoning and is skipped.
func reasoningLog(messages []reagent.Message, finish *reagent.AgentFinish) []string {
	var log []string
	for _, msg := range messages {
		if msg.Role == reagent.RoleAssistant && len(msg.ToolCalls) > 0 && msg.Content != "" {
			log = append(log, msg.Content)
		}
	}
	if finish.Rationale != "" && finish.Rationale != reagent.FallbackRationale {
		log = append(log, finish.Rationale)
	}
	return log
}

// AddTool registers another tool after construction.
func (a *Agent) AddTool(tool reagent.Tool) error {
	return a.tools.Register(tool)
}

// Tools returns the registered tool names in registration order.
func (a *Agent) Tools() []string {
	return a.tools.Names()
}

// Memory returns the accumulated conversation, or nil when the agent
// was not configured to accumulate.
func (a *Agent) Memory() *reagent.Memory {
	return a.memory
}

// Reset discards the accumulated conversation. It is a no-op without
// AccumulateMemory.
func (a *Agent) Reset() {
	if a.memory != nil {
		a.memory = reagent.NewMemory()
	}
}
