package reagent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reagentkit/reagent"
	"github.com/reagentkit/reagent/internal/tt"
)

func TestLLMPlanner_Plan(t *testing.T) {
	type input struct {
		response string
	}

	type expected struct {
		descriptions []string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "structured steps",
			input: input{
				response: `{"steps": [{"description": "add 24 and 18"}, {"description": "multiply by 0.75"}]}`,
			},
			expected: expected{
				descriptions: []string{"add 24 and 18", "multiply by 0.75"},
			},
		},
		{
			name: "steps as bare strings",
			input: input{
				response: `{"steps": ["first", "second"]}`,
			},
			expected: expected{
				descriptions: []string{"first", "second"},
			},
		},
		{
			name: "fenced json is repaired",
			input: input{
				response: "```json\n{\"steps\": [{\"description\": \"only step\"}]}\n```",
			},
			expected: expected{
				descriptions: []string{"only step"},
			},
		},
		{
			name: "numbered plain text fallback",
			input: input{
				response: "1. gather the inputs\n2. compute the result\n",
			},
			expected: expected{
				descriptions: []string{"gather the inputs", "compute the result"},
			},
		},
		{
			name: "blank step entries are dropped",
			input: input{
				response: `{"steps": [{"description": "  "}, {"description": "real step"}]}`,
			},
			expected: expected{
				descriptions: []string{"real step"},
			},
		},
		{
			name:     "empty response yields empty plan",
			input:    input{response: "   "},
			expected: expected{descriptions: nil},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := tt.NewScriptedClient().AddResponse(tc.input.response)
			planner := reagent.NewLLMPlanner(client)

			plan, err := planner.Plan(context.Background(), "some task", reagent.NewMemory(), reagent.NewRegistry())
			require.NoError(t, err)

			var descriptions []string
			for i, step := range plan.Steps {
				assert.Equal(t, i, step.Index)
				descriptions = append(descriptions, step.Description)
			}
			assert.Equal(t, tc.expected.descriptions, descriptions)
		})
	}
}

func TestLLMPlanner_Plan_RequestShape(t *testing.T) {
	client := tt.NewScriptedClient().AddResponse(`{"steps": []}`)
	planner := reagent.NewLLMPlanner(client).WithMaxContextMessages(2)

	registry := reagent.NewRegistry()
	require.NoError(t, registry.Register(reagent.NewToolFunc("calculator", "evaluates arithmetic", nil, nil)))

	memory := reagent.NewMemory()
	memory.Append(reagent.UserMessage("old message dropped by the window"))
	memory.Append(reagent.UserMessage("recent one"))
	memory.Append(reagent.AssistantMessage("recent two"))

	_, err := planner.Plan(context.Background(), "compute the total", memory, registry)
	require.NoError(t, err)

	require.Len(t, client.CapturedMessages, 1)
	request := client.CapturedMessages[0]
	require.Len(t, request, 3)

	assert.Equal(t, reagent.RoleSystem, request[0].Role)
	assert.Contains(t, request[1].Content, "recent one")
	assert.Contains(t, request[1].Content, "recent two")
	assert.NotContains(t, request[1].Content, "old message")
	assert.Contains(t, request[2].Content, "compute the total")
	assert.Contains(t, request[2].Content, "- calculator: evaluates arithmetic")
}

func TestLLMPlanner_Plan_TransportErrorPropagates(t *testing.T) {
	boom := &reagent.TransportError{Err: errors.New("timeout")}
	client := tt.NewScriptedClient().AddError(boom)
	planner := reagent.NewLLMPlanner(client)

	_, err := planner.Plan(context.Background(), "task", reagent.NewMemory(), reagent.NewRegistry())

	var transportErr *reagent.TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestPlan_Describe(t *testing.T) {
	plan := reagent.Plan{Steps: []reagent.PlanStep{
		{Index: 0, Description: "first"},
		{Index: 1, Description: "second"},
	}}

	assert.Equal(t, "1. first\n2. second", plan.Describe())
	assert.False(t, plan.IsEmpty())
	assert.True(t, reagent.Plan{}.IsEmpty())
	assert.Equal(t, "", reagent.Plan{}.Describe())
}
