package reagent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// PlanStep is one step of a task decomposition.
type PlanStep struct {
	Index       int
	Description string
}

// Plan is an ordered task decomposition. It is consumed only as prompt
// context: the executor renders it into the priming prompt and never gates
// execution on it. An empty plan is valid.
type Plan struct {
	Steps []PlanStep
}

// Describe renders the plan as a numbered list, "" for an empty plan.
func (p Plan) Describe() string {
	lines := make([]string, 0, len(p.Steps))
	for _, step := range p.Steps {
		lines = append(lines, fmt.Sprintf("%d. %s", step.Index+1, step.Description))
	}
	return strings.Join(lines, "\n")
}

// IsEmpty reports whether the plan has no steps.
func (p Plan) IsEmpty() bool {
	return len(p.Steps) == 0
}

// Planner decomposes a task into an ordered list of step descriptions.
// Implementations are pluggable; [LLMPlanner] is the default.
type Planner interface {
	Plan(ctx context.Context, task string, memory *Memory, tools *Registry) (Plan, error)
}

// LLMPlanner produces a plan with a single model round-trip. The request
// carries at most MaxContextMessages of recent conversation, the task, and
// the tool catalog.
//
// Planning is advisory: an empty or unparseable response yields an empty
// plan, never an error. Only a transport failure from the model endpoint
// propagates.
type LLMPlanner struct {
	client             ChatClient
	systemPrompt       string
	maxContextMessages int
}

// NewLLMPlanner creates a planner over the given chat client with defaults
// of 10 context messages and [PlannerSystemPrompt].
func NewLLMPlanner(client ChatClient) *LLMPlanner {
	return &LLMPlanner{
		client:             client,
		systemPrompt:       PlannerSystemPrompt,
		maxContextMessages: 10,
	}
}

// WithMaxContextMessages caps the recent conversation window included in
// the planning request. Returns the planner for chaining.
func (p *LLMPlanner) WithMaxContextMessages(n int) *LLMPlanner {
	p.maxContextMessages = n
	return p
}

// WithSystemPrompt replaces the planner's system prompt.
func (p *LLMPlanner) WithSystemPrompt(prompt string) *LLMPlanner {
	p.systemPrompt = prompt
	return p
}

// Plan implements [Planner].
func (p *LLMPlanner) Plan(ctx context.Context, task string, memory *Memory, tools *Registry) (Plan, error) {
	messages := []Message{SystemMessage(p.systemPrompt)}

	recent := memory.Snapshot()
	if len(recent) > p.maxContextMessages {
		recent = recent[len(recent)-p.maxContextMessages:]
	}
	if len(recent) > 0 {
		var sb strings.Builder
		sb.WriteString("Here is the conversation so far for context:\n")
		for _, msg := range recent {
			fmt.Fprintf(&sb, "%s: %s\n", msg.Role, msg.Content)
		}
		messages = append(messages, UserMessage(strings.TrimRight(sb.String(), "\n")))
	}

	var request strings.Builder
	fmt.Fprintf(&request, "Create a plan for the following task: %s.", task)
	if listing := tools.Describe(); listing != "" {
		request.WriteString("\nAvailable tools:\n")
		request.WriteString(listing)
	}
	request.WriteString("\nRespond with JSON using the schema {\"steps\": [{\"description\": string}]}.")
	messages = append(messages, UserMessage(request.String()))

	resp, err := p.client.Chat(ctx, messages)
	if err != nil {
		return Plan{}, err
	}
	return parsePlan(resp.Content), nil
}

// parsePlan extracts steps from the model's response. Structured JSON is
// tried first (repairing near-JSON output); failing that, the response is
// read as a numbered or bulleted plain-text list. Anything else yields an
// empty plan.
func parsePlan(content string) Plan {
	content = strings.TrimSpace(content)
	if content == "" {
		return Plan{}
	}

	var envelope struct {
		Steps []json.RawMessage `json:"steps"`
	}
	decoded := false
	if err := json.Unmarshal([]byte(content), &envelope); err == nil {
		decoded = true
	} else if repaired, rerr := jsonrepair.JSONRepair(content); rerr == nil {
		if err := json.Unmarshal([]byte(repaired), &envelope); err == nil {
			decoded = true
		}
	}

	if !decoded {
		return planFromLines(content)
	}

	steps := make([]PlanStep, 0, len(envelope.Steps))
	for _, raw := range envelope.Steps {
		description := ""
		var asObject struct {
			Description string `json:"description"`
		}
		if err := json.Unmarshal(raw, &asObject); err == nil && asObject.Description != "" {
			description = asObject.Description
		} else {
			var asString string
			if err := json.Unmarshal(raw, &asString); err == nil {
				description = asString
			}
		}
		description = strings.TrimSpace(description)
		if description == "" {
			continue
		}
		steps = append(steps, PlanStep{Index: len(steps), Description: description})
	}
	return Plan{Steps: steps}
}

// planFromLines parses a numbered/bulleted plain-text plan.
func planFromLines(content string) Plan {
	var steps []PlanStep
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "0123456789.)-* \t")
		if line == "" {
			continue
		}
		steps = append(steps, PlanStep{Index: len(steps), Description: line})
	}
	return Plan{Steps: steps}
}
