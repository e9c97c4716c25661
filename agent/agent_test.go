package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reagentkit/reagent"
	"github.com/reagentkit/reagent/internal/tt"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	_, err = New(Config{
		Client: tt.NewScriptedClient(),
		Tools: []reagent.Tool{
			tt.NewScriptedTool("calc"),
			tt.NewScriptedTool("calc"),
		},
	})
	var dup *reagent.DuplicateToolError
	assert.ErrorAs(t, err, &dup)
}

func TestAgent_Run_PlansThenExecutes(t *testing.T) {
	client := tt.NewScriptedClient().
		// First call is the planning round-trip.
		AddResponse(`{"steps": [{"description": "look up the value"}]}`).
		AddResponse(`{"type": "tool", "tool": "lookup", "input": {}, "call_id": "call-1"}`).
		AddResponse(`{"type": "finish", "final_answer": "the value is 7"}`)

	a, err := New(Config{
		Client: client,
		Tools:  []reagent.Tool{tt.NewScriptedTool("lookup").WithResult("7")},
	})
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "find the value")
	require.NoError(t, err)

	assert.Empty(t, result.ReasoningLog)

	assert.Equal(t, "find the value", result.Task)
	assert.Equal(t, "the value is 7", result.Output)
	require.Len(t, result.Plan.Steps, 1)
	assert.Equal(t, "look up the value", result.Plan.Steps[0].Description)
	assert.Equal(t, 3, client.CallCount())

	// The plan is rendered into the priming prompt.
	require.NotEmpty(t, result.Messages)
	assert.Contains(t, result.Messages[0].Content, "1. look up the value")
}

func TestAgent_Run_ReasoningLog(t *testing.T) {
	client := tt.NewScriptedClient().
		AddResponse(`{"type": "tool", "tool": "lookup", "input": {}, "thought": "need the stored value"}`).
		AddResponse(`{"type": "finish", "final_answer": "7", "thought": "observation answers the task"}`)

	a, err := New(Config{
		Client:       client,
		SkipPlanning: true,
		Tools:        []reagent.Tool{tt.NewScriptedTool("lookup").WithResult("7")},
	})
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "find the value")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"need the stored value",
		"observation answers the task",
	}, result.ReasoningLog)
}

func TestAgent_Run_SkipPlanning(t *testing.T) {
	client := tt.NewScriptedClient().
		AddResponse(`{"type": "finish", "final_answer": "done"}`)

	a, err := New(Config{
		Client:       client,
		SkipPlanning: true,
	})
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "simple task")
	require.NoError(t, err)

	assert.Equal(t, "done", result.Output)
	assert.True(t, result.Plan.IsEmpty())
	assert.Equal(t, 1, client.CallCount())
	assert.Contains(t, result.Messages[0].Content, "No explicit plan was created.")
}

func TestAgent_Run_AccumulateMemory(t *testing.T) {
	client := tt.NewScriptedClient().
		AddResponse(`{"type": "finish", "final_answer": "first"}`).
		AddResponse(`{"type": "finish", "final_answer": "second"}`)

	a, err := New(Config{
		Client:           client,
		SkipPlanning:     true,
		AccumulateMemory: true,
	})
	require.NoError(t, err)

	first, err := a.Run(context.Background(), "task one")
	require.NoError(t, err)
	second, err := a.Run(context.Background(), "task two")
	require.NoError(t, err)

	// The second run's transcript contains the whole first run.
	assert.Greater(t, len(second.Messages), len(first.Messages))
	require.NotNil(t, a.Memory())
	assert.Equal(t, len(second.Messages), a.Memory().Len())

	a.Reset()
	assert.Equal(t, 0, a.Memory().Len())
}

func TestAgent_Run_FreshMemoryPerRun(t *testing.T) {
	client := tt.NewScriptedClient().
		AddResponse(`{"type": "finish", "final_answer": "first"}`).
		AddResponse(`{"type": "finish", "final_answer": "second"}`)

	a, err := New(Config{
		Client:       client,
		SkipPlanning: true,
	})
	require.NoError(t, err)

	first, err := a.Run(context.Background(), "task one")
	require.NoError(t, err)
	second, err := a.Run(context.Background(), "task two")
	require.NoError(t, err)

	assert.Len(t, second.Messages, len(first.Messages))
	assert.Nil(t, a.Memory())
}

func TestAgent_AddTool(t *testing.T) {
	a, err := New(Config{
		Client:       tt.NewScriptedClient(),
		SkipPlanning: true,
		Tools:        []reagent.Tool{tt.NewScriptedTool("calc")},
	})
	require.NoError(t, err)

	require.NoError(t, a.AddTool(tt.NewScriptedTool("clock")))
	assert.Equal(t, []string{"calc", "clock"}, a.Tools())

	var dup *reagent.DuplicateToolError
	assert.ErrorAs(t, a.AddTool(tt.NewScriptedTool("calc")), &dup)
}

func TestAgent_Run_PlannerFailureAborts(t *testing.T) {
	client := tt.NewScriptedClient().
		AddError(&reagent.TransportError{Err: assert.AnError})

	a, err := New(Config{Client: client})
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "task")
	var transportErr *reagent.TransportError
	require.ErrorAs(t, err, &transportErr)
}
