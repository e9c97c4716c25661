// Package models adapts LangChainGo chat models to the reagent
// ChatClient interface and provides ready-made constructors for the
// providers the project is commonly run against.
package models

import (
	"context"
	"encoding/json"

	"github.com/reagentkit/reagent"
	"github.com/tmc/langchaingo/llms"
)

// LCGClient wraps an llms.Model and implements reagent.ChatClient.
// It converts reagent messages to LangChainGo message contents and
// normalizes token usage across providers.
//
// Example usage:
//
//	llm, _ := openai.New(openai.WithToken(apiKey))
//	client := models.NewLCGClient(llm).WithModelName("gpt-4o-mini")
type LCGClient struct {
	model     llms.Model
	modelName string
	options   []llms.CallOption
}

// NewLCGClient creates a new LCGClient wrapping the given llms.Model.
func NewLCGClient(model llms.Model) *LCGClient {
	return &LCGClient{
		model: model,
	}
}

// WithModelName sets the model name passed on each call. Returns the
// client for chaining.
func (c *LCGClient) WithModelName(name string) *LCGClient {
	c.modelName = name
	return c
}

// WithCallOptions sets default call options (temperature, max tokens,
// and so on) applied to every Chat call. Returns the client for
// chaining.
func (c *LCGClient) WithCallOptions(options ...llms.CallOption) *LCGClient {
	c.options = options
	return c
}

// Unwrap returns the underlying llms.Model.
func (c *LCGClient) Unwrap() llms.Model {
	return c.model
}

// Chat implements reagent.ChatClient. Transport failures are wrapped in
// a reagent.TransportError.
func (c *LCGClient) Chat(ctx context.Context, messages []reagent.Message) (*reagent.ChatResponse, error) {
	contents := convertMessages(messages)

	opts := c.options
	if c.modelName != "" {
		opts = append([]llms.CallOption{llms.WithModel(c.modelName)}, opts...)
	}

	response, err := c.model.GenerateContent(ctx, contents, opts...)
	if err != nil {
		return nil, &reagent.TransportError{Err: err}
	}
	if len(response.Choices) == 0 {
		return &reagent.ChatResponse{}, nil
	}

	choice := response.Choices[0]
	out := &reagent.ChatResponse{
		Content:      choice.Content,
		FinishReason: choice.StopReason,
	}
	// Providers that answer with native tool calls instead of text get
	// re-encoded into the structured dialect the parser understands.
	if out.Content == "" && len(choice.ToolCalls) > 0 {
		out.Content = encodeToolCall(choice.ToolCalls[0])
	}
	if choice.GenerationInfo != nil {
		out.Usage = normalizeUsage(choice.GenerationInfo)
	}
	return out, nil
}

// convertMessages maps reagent messages onto LangChainGo message
// contents, preserving tool call ids in both directions.
func convertMessages(messages []reagent.Message) []llms.MessageContent {
	contents := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case reagent.RoleSystem:
			contents = append(contents, llms.TextParts(llms.ChatMessageTypeSystem, msg.Content))

		case reagent.RoleUser:
			contents = append(contents, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))

		case reagent.RoleAssistant:
			content := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			if msg.Content != "" {
				content.Parts = append(content.Parts, llms.TextPart(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				content.Parts = append(content.Parts, llms.ToolCall{
					ID:   call.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      call.Name,
						Arguments: call.Arguments,
					},
				})
			}
			contents = append(contents, content)

		case reagent.RoleTool:
			contents = append(contents, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: msg.ToolCallID,
						Name:       msg.Name,
						Content:    msg.Content,
					},
				},
			})
		}
	}
	return contents
}

// encodeToolCall renders a native tool call as a structured JSON reply.
func encodeToolCall(call llms.ToolCall) string {
	if call.FunctionCall == nil {
		return ""
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(call.FunctionCall.Arguments), &args); err != nil {
		args = map[string]any{}
	}
	encoded, err := json.Marshal(map[string]any{
		"type":    "tool",
		"tool":    call.FunctionCall.Name,
		"input":   args,
		"call_id": call.ID,
	})
	if err != nil {
		return ""
	}
	return string(encoded)
}

// normalizeUsage extracts token counts from GenerationInfo, handling
// the different key names used by different providers.
func normalizeUsage(info map[string]any) *reagent.Usage {
	usage := &reagent.Usage{
		InputTokens:  extractInputTokens(info),
		OutputTokens: extractOutputTokens(info),
	}
	usage.TotalTokens = extractTotalTokens(info, usage.InputTokens, usage.OutputTokens)
	if usage.InputTokens == 0 && usage.OutputTokens == 0 && usage.TotalTokens == 0 {
		return nil
	}
	return usage
}

func extractInputTokens(info map[string]any) int {
	// OpenAI / Ollama / Google (compat)
	if v := getIntFromMap(info, "PromptTokens"); v > 0 {
		return v
	}
	// Anthropic
	if v := getIntFromMap(info, "InputTokens"); v > 0 {
		return v
	}
	// Google / Bedrock
	if v := getIntFromMap(info, "input_tokens"); v > 0 {
		return v
	}
	return 0
}

func extractOutputTokens(info map[string]any) int {
	// OpenAI / Ollama / Google (compat)
	if v := getIntFromMap(info, "CompletionTokens"); v > 0 {
		return v
	}
	// Anthropic
	if v := getIntFromMap(info, "OutputTokens"); v > 0 {
		return v
	}
	// Google / Bedrock
	if v := getIntFromMap(info, "output_tokens"); v > 0 {
		return v
	}
	return 0
}

func extractTotalTokens(info map[string]any, input, output int) int {
	if v := getIntFromMap(info, "TotalTokens"); v > 0 {
		return v
	}
	if v := getIntFromMap(info, "total_tokens"); v > 0 {
		return v
	}
	return input + output
}

// getIntFromMap extracts an int value from a map, handling various numeric types.
func getIntFromMap(m map[string]any, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}

// Compile-time check that LCGClient implements reagent.ChatClient.
var _ reagent.ChatClient = (*LCGClient)(nil)
