package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reagentkit/reagent"
)

func TestParser_Parse_Structured(t *testing.T) {
	type input struct {
		text string
	}

	type expected struct {
		hasErr    bool
		kind      reagent.DecisionKind
		tool      string
		args      map[string]any
		rationale string
		callID    string
		output    string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "tool call with discriminator",
			input: input{
				text: `{"type": "tool", "tool": "calculator", "input": {"expression": "2+2"}, "thought": "compute first", "call_id": "call-1"}`,
			},
			expected: expected{
				kind:      reagent.DecisionToolCall,
				tool:      "calculator",
				args:      map[string]any{"expression": "2+2"},
				rationale: "compute first",
				callID:    "call-1",
			},
		},
		{
			name: "alternate tool and argument keys",
			input: input{
				text: `{"type": "tool", "name": "search", "arguments": {"q": "go"}}`,
			},
			expected: expected{
				kind: reagent.DecisionToolCall,
				tool: "search",
				args: map[string]any{"q": "go"},
			},
		},
		{
			name: "intent inferred without discriminator",
			input: input{
				text: `{"action": "lookup", "action_input": {"id": "a1"}}`,
			},
			expected: expected{
				kind: reagent.DecisionToolCall,
				tool: "lookup",
				args: map[string]any{"id": "a1"},
			},
		},
		{
			name: "nested tool reference object",
			input: input{
				text: `{"type": "tool", "tool": {"name": "calculator"}, "input": {}}`,
			},
			expected: expected{
				kind: reagent.DecisionToolCall,
				tool: "calculator",
				args: map[string]any{},
			},
		},
		{
			name: "tool call without arguments defaults to empty object",
			input: input{
				text: `{"type": "tool", "tool": "clock"}`,
			},
			expected: expected{
				kind: reagent.DecisionToolCall,
				tool: "clock",
				args: map[string]any{},
			},
		},
		{
			name: "finish with final_answer",
			input: input{
				text: `{"type": "finish", "final_answer": "31.5", "thought": "done"}`,
			},
			expected: expected{
				kind:      reagent.DecisionFinish,
				output:    "31.5",
				rationale: "done",
			},
		},
		{
			name: "finish with output key",
			input: input{
				text: `{"type": "finish", "output": "all set"}`,
			},
			expected: expected{
				kind:   reagent.DecisionFinish,
				output: "all set",
			},
		},
		{
			name: "non-string final answer is stringified",
			input: input{
				text: `{"type": "finish", "final_answer": {"value": 42}}`,
			},
			expected: expected{
				kind:   reagent.DecisionFinish,
				output: `{"value":42}`,
			},
		},
		{
			name: "fenced json is repaired",
			input: input{
				text: "```json\n{\"type\": \"finish\", \"final_answer\": \"42\"}\n```",
			},
			expected: expected{
				kind:   reagent.DecisionFinish,
				output: "42",
			},
		},
		{
			name: "single quoted json is repaired",
			input: input{
				text: `{'type': 'tool', 'tool': 'calculator', 'input': {'expression': '1+1'}}`,
			},
			expected: expected{
				kind: reagent.DecisionToolCall,
				tool: "calculator",
				args: map[string]any{"expression": "1+1"},
			},
		},
		{
			name:     "missing tool name fails",
			input:    input{text: `{"type": "tool", "input": {"x": 1}}`},
			expected: expected{hasErr: true},
		},
		{
			name:     "non-object tool input fails",
			input:    input{text: `{"type": "tool", "tool": "calculator", "input": "2+2"}`},
			expected: expected{hasErr: true},
		},
		{
			name:     "unsupported type fails",
			input:    input{text: `{"type": "chat", "content": "hi"}`},
			expected: expected{hasErr: true},
		},
		{
			name:     "empty final answer fails",
			input:    input{text: `{"type": "finish", "final_answer": ""}`},
			expected: expected{hasErr: true},
		},
		{
			name:     "object without recognizable keys fails",
			input:    input{text: `{"foo": 1}`},
			expected: expected{hasErr: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := New()
			decision, err := parser.Parse(tt.input.text)

			if tt.expected.hasErr {
				require.Error(t, err)
				var parseErr *reagent.ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, tt.input.text, parseErr.Raw)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.kind, decision.Kind)

			switch tt.expected.kind {
			case reagent.DecisionToolCall:
				require.NotNil(t, decision.Action)
				assert.Equal(t, tt.expected.tool, decision.Action.Tool)
				assert.Equal(t, tt.expected.args, decision.Action.Arguments)
				assert.Equal(t, tt.expected.rationale, decision.Action.Rationale)
				assert.Equal(t, tt.input.text, decision.Action.Raw)
				if tt.expected.callID != "" {
					assert.Equal(t, tt.expected.callID, decision.Action.CallID)
				} else {
					assert.True(t, strings.HasPrefix(decision.Action.CallID, "call-"))
				}
			case reagent.DecisionFinish:
				require.NotNil(t, decision.Finish)
				assert.Equal(t, tt.expected.output, decision.Finish.Output)
				assert.Equal(t, tt.expected.rationale, decision.Finish.Rationale)
			}
		})
	}
}

func TestParser_Parse_Markup(t *testing.T) {
	type input struct {
		text string
	}

	type expected struct {
		hasErr    bool
		tool      string
		args      map[string]any
		rationale string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "reasoning then tool call",
			input: input{
				text: "I need to evaluate the expression first.\n✿FUNCTION✿: calculator\n✿ARGS✿: {\"expression\": \"(24+18)*0.75\"}",
			},
			expected: expected{
				tool:      "calculator",
				args:      map[string]any{"expression": "(24+18)*0.75"},
				rationale: "I need to evaluate the expression first.",
			},
		},
		{
			name: "tool call without arguments",
			input: input{
				text: "✿FUNCTION✿: clock",
			},
			expected: expected{
				tool: "clock",
				args: map[string]any{},
			},
		},
		{
			name: "trailing result block is ignored",
			input: input{
				text: "✿FUNCTION✿: calculator\n✿ARGS✿: {\"expression\": \"1+1\"}\n✿RESULT✿: 2\n✿RETURN✿: done",
			},
			expected: expected{
				tool: "calculator",
				args: map[string]any{"expression": "1+1"},
			},
		},
		{
			name: "near-json arguments are repaired",
			input: input{
				text: "✿FUNCTION✿: calculator\n✿ARGS✿: {'expression': '2+2'}",
			},
			expected: expected{
				tool: "calculator",
				args: map[string]any{"expression": "2+2"},
			},
		},
		{
			name:     "missing tool name fails",
			input:    input{text: "thinking...\n✿FUNCTION✿:\n✿ARGS✿: {}"},
			expected: expected{hasErr: true},
		},
		{
			name:     "unparseable arguments fail",
			input:    input{text: "✿FUNCTION✿: calculator\n✿ARGS✿: [not an object"},
			expected: expected{hasErr: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := New()
			decision, err := parser.Parse(tt.input.text)

			if tt.expected.hasErr {
				require.Error(t, err)
				var parseErr *reagent.ParseError
				assert.ErrorAs(t, err, &parseErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, reagent.DecisionToolCall, decision.Kind)
			require.NotNil(t, decision.Action)
			assert.Equal(t, tt.expected.tool, decision.Action.Tool)
			assert.Equal(t, tt.expected.args, decision.Action.Arguments)
			assert.Equal(t, tt.expected.rationale, decision.Action.Rationale)
			assert.NotEmpty(t, decision.Action.CallID)
		})
	}
}

func TestParser_Parse_PlainText(t *testing.T) {
	parser := New()

	decision, err := parser.Parse("  The capital of France is Paris.  ")
	require.NoError(t, err)
	require.Equal(t, reagent.DecisionFinish, decision.Kind)
	require.NotNil(t, decision.Finish)
	assert.Equal(t, "The capital of France is Paris.", decision.Finish.Output)
	assert.Equal(t, reagent.FallbackRationale, decision.Finish.Rationale)
}

func TestParser_Parse_Empty(t *testing.T) {
	parser := New()

	_, err := parser.Parse("   \n\t ")
	require.Error(t, err)
	var parseErr *reagent.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParser_Instruction(t *testing.T) {
	parser := New()

	instruction := parser.Instruction()
	assert.Contains(t, instruction, `"type": "tool"`)
	assert.Contains(t, instruction, `"type": "finish"`)
}

func TestNewWithMatchers_Order(t *testing.T) {
	// Plain text first swallows everything, including valid JSON.
	parser := NewWithMatchers(&PlainTextMatcher{})

	decision, err := parser.Parse(`{"type": "finish", "final_answer": "42"}`)
	require.NoError(t, err)
	require.Equal(t, reagent.DecisionFinish, decision.Kind)
	assert.Equal(t, reagent.FallbackRationale, decision.Finish.Rationale)
}
