package reagent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolCallMsg(id, tool, args string) Message {
	msg := AssistantMessage("")
	msg.ToolCalls = []ToolCall{{ID: id, Name: tool, Arguments: args}}
	return msg
}

func TestReconstructTraces(t *testing.T) {
	type input struct {
		messages []Message
	}

	type expected struct {
		traces []invocationTrace
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "no messages yields no traces",
			input:    input{messages: nil},
			expected: expected{traces: []invocationTrace{}},
		},
		{
			name: "pairs observation by call id not position",
			input: input{messages: []Message{
				toolCallMsg("call-1", "calculator", `{"expression":"24+18"}`),
				toolCallMsg("call-2", "calculator", `{"expression":"42*0.75"}`),
				// Observations arrive in reverse order.
				ToolMessage("31.5", "calculator", "call-2", nil),
				ToolMessage("42", "calculator", "call-1", nil),
			}},
			expected: expected{traces: []invocationTrace{
				{tool: "calculator", expression: `{"expression":"24+18"}`, result: "42"},
				{tool: "calculator", expression: `{"expression":"42*0.75"}`, result: "31.5"},
			}},
		},
		{
			name: "unmatched observation is skipped",
			input: input{messages: []Message{
				toolCallMsg("call-1", "calculator", `{"expression":"1+1"}`),
				ToolMessage("2", "calculator", "call-1", nil),
				ToolMessage("ghost", "calculator", "call-99", nil),
			}},
			expected: expected{traces: []invocationTrace{
				{tool: "calculator", expression: `{"expression":"1+1"}`, result: "2"},
			}},
		},
		{
			name: "unobserved call yields no trace",
			input: input{messages: []Message{
				toolCallMsg("call-1", "calculator", `{"expression":"1+1"}`),
				toolCallMsg("call-2", "calculator", `{"expression":"2+2"}`),
				ToolMessage("4", "calculator", "call-2", nil),
			}},
			expected: expected{traces: []invocationTrace{
				{tool: "calculator", expression: `{"expression":"2+2"}`, result: "4"},
			}},
		},
		{
			name: "second observation for the same call is ignored",
			input: input{messages: []Message{
				toolCallMsg("call-1", "calculator", `{"expression":"1+1"}`),
				ToolMessage("2", "calculator", "call-1", nil),
				ToolMessage("overwrite", "calculator", "call-1", nil),
			}},
			expected: expected{traces: []invocationTrace{
				{tool: "calculator", expression: `{"expression":"1+1"}`, result: "2"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traces := reconstructTraces(tt.input.messages)
			assert.Equal(t, tt.expected.traces, traces)
		})
	}
}

func TestSummarizeFallback(t *testing.T) {
	messages := []Message{
		toolCallMsg("call-1", "calculator", `{"expression":"24+18"}`),
		ToolMessage("42", "calculator", "call-1", nil),
		toolCallMsg("call-2", "calculator", `{"expression":"42*0.75"}`),
		ToolMessage("The result is 31.5 (rounded)", "calculator", "call-2", nil),
	}

	finish := summarizeFallback(messages, &AgentFinish{
		Output:    "I have completed the calculation.",
		Rationale: FallbackRationale,
	})

	require.NotNil(t, finish)
	assert.Equal(t, FallbackRationale, finish.Rationale)
	assert.Contains(t, finish.Output, "Completed the task with the following tool invocations:")
	assert.Contains(t, finish.Output, `1. calculator({"expression":"24+18"}) -> 42`)
	assert.Contains(t, finish.Output, `2. calculator({"expression":"42*0.75"}) -> The result is 31.5 (rounded)`)
	// The final answer is the first numeric token of the last result.
	assert.Contains(t, finish.Output, "Final answer: 31.5")
}

func TestSummarizeFallback_NonNumericResult(t *testing.T) {
	messages := []Message{
		toolCallMsg("call-1", "weather", `{"city":"Paris"}`),
		ToolMessage("sunny", "weather", "call-1", nil),
	}

	finish := summarizeFallback(messages, &AgentFinish{
		Output:    "done",
		Rationale: FallbackRationale,
	})

	assert.Contains(t, finish.Output, "Final answer: sunny")
}

func TestSummarizeFallback_NoTraces(t *testing.T) {
	original := &AgentFinish{Output: "plain answer", Rationale: FallbackRationale}

	finish := summarizeFallback([]Message{UserMessage("task")}, original)

	assert.Same(t, original, finish)
}
