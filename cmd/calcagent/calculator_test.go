package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalExpression(t *testing.T) {
	type input struct {
		expr string
	}

	type expected struct {
		hasErr bool
		value  float64
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "addition and precedence",
			input:    input{expr: "2 + 3 * 4"},
			expected: expected{value: 14},
		},
		{
			name:     "parentheses",
			input:    input{expr: "(24 + 18) * 0.75"},
			expected: expected{value: 31.5},
		},
		{
			name:     "unary minus",
			input:    input{expr: "-3 + 5"},
			expected: expected{value: 2},
		},
		{
			name:     "power is right associative",
			input:    input{expr: "2 ^ 3 ^ 2"},
			expected: expected{value: 512},
		},
		{
			name:     "modulo",
			input:    input{expr: "10 % 3"},
			expected: expected{value: 1},
		},
		{
			name:     "division",
			input:    input{expr: "7 / 2"},
			expected: expected{value: 3.5},
		},
		{
			name:     "division by zero fails",
			input:    input{expr: "1 / 0"},
			expected: expected{hasErr: true},
		},
		{
			name:     "trailing garbage fails",
			input:    input{expr: "1 + 2 x"},
			expected: expected{hasErr: true},
		},
		{
			name:     "unbalanced parenthesis fails",
			input:    input{expr: "(1 + 2"},
			expected: expected{hasErr: true},
		},
		{
			name:     "empty expression fails",
			input:    input{expr: "   "},
			expected: expected{hasErr: true},
		},
		{
			name:     "malformed number fails",
			input:    input{expr: "1..2 + 1"},
			expected: expected{hasErr: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := evalExpression(tt.input.expr)

			if tt.expected.hasErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected.value, value, 1e-9)
		})
	}
}

func TestCalculatorTool(t *testing.T) {
	tool := newCalculatorTool()
	assert.Equal(t, "calculator", tool.Name())
	assert.False(t, tool.ReturnDirect())

	result, err := tool.Invoke(context.Background(), map[string]any{"expression": "(24+18)*0.75"})
	require.NoError(t, err)
	assert.Equal(t, "31.5", result.Content)

	_, err = tool.Invoke(context.Background(), map[string]any{"expression": "nonsense"})
	assert.Error(t, err)
}
