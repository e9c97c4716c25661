package reagent

import (
	"fmt"
	"regexp"
	"strings"
)

// numberPattern matches the first integer-or-decimal token in a result
// text, scanning left to right.
var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// invocationTrace pairs one tool call with its observation, reconstructed
// from the conversation for the fallback summarization pass.
type invocationTrace struct {
	tool       string
	expression string
	result     string
}

// reconstructTraces pairs each assistant tool-call message with its
// observation by call id, in turn order. Pairing uses call-id correlation,
// not position. An observation whose call id matches no pending call is
// skipped; a pending call with no observation yields no trace.
func reconstructTraces(messages []Message) []invocationTrace {
	type pending struct {
		order int
		tool  string
		args  string
	}

	calls := make(map[string]pending)
	order := 0
	results := make(map[string]string)
	observed := make(map[string]bool)

	for _, msg := range messages {
		switch msg.Role {
		case RoleAssistant:
			for _, call := range msg.ToolCalls {
				if _, exists := calls[call.ID]; exists {
					continue
				}
				calls[call.ID] = pending{order: order, tool: call.Name, args: call.Arguments}
				order++
			}
		case RoleTool:
			if msg.ToolCallID == "" || observed[msg.ToolCallID] {
				continue
			}
			if _, exists := calls[msg.ToolCallID]; !exists {
				continue
			}
			observed[msg.ToolCallID] = true
			results[msg.ToolCallID] = msg.Content
		}
	}

	traces := make([]invocationTrace, order)
	count := 0
	for id, call := range calls {
		result, ok := results[id]
		if !ok {
			continue
		}
		traces[call.order] = invocationTrace{tool: call.tool, expression: call.args, result: result}
		count++
	}

	// Compact out unobserved calls while preserving turn order.
	compacted := make([]invocationTrace, 0, count)
	for _, trace := range traces {
		if trace.tool != "" {
			compacted = append(compacted, trace)
		}
	}
	return compacted
}

// summarizeFallback rewrites a plain-text fallback finish into a
// step-by-step narrative of the run's tool invocations. The narrative ends
// with the first numeric token found in the final trace's result, or the
// raw result text when no number is present. A run with no completed
// invocations keeps the original finish untouched.
func summarizeFallback(messages []Message, finish *AgentFinish) *AgentFinish {
	traces := reconstructTraces(messages)
	if len(traces) == 0 {
		return finish
	}

	var sb strings.Builder
	sb.WriteString("Completed the task with the following tool invocations:\n")
	for i, trace := range traces {
		fmt.Fprintf(&sb, "%d. %s(%s) -> %s\n", i+1, trace.tool, trace.expression, trace.result)
	}

	last := traces[len(traces)-1].result
	value := numberPattern.FindString(last)
	if value == "" {
		value = last
	}
	fmt.Fprintf(&sb, "Final answer: %s", value)

	return &AgentFinish{Output: sb.String(), Rationale: finish.Rationale}
}
