package reagent

import (
	"context"
)

// ChatClient is the model chat transport consumed by the planner and the
// executor. Implementations live outside the core engine; the models
// subpackage provides wrappers over LangChainGo providers.
//
// The executor always prepends one system-role message (its fixed
// instruction prompt) to the memory snapshot it sends.
type ChatClient interface {
	// Chat performs one blocking request/response round-trip. A non-success
	// status or a malformed response envelope must be reported as a
	// [*TransportError].
	Chat(ctx context.Context, messages []Message) (*ChatResponse, error)
}

// ChatResponse is the normalized result of one chat call.
type ChatResponse struct {
	// Content is the textual completion.
	Content string

	// FinishReason is the provider's stop reason, "" when not reported.
	FinishReason string

	// Usage holds token accounting, nil when the provider reports none.
	Usage *Usage
}

// Usage holds normalized token counts for one chat call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Parser classifies one opaque model response into a [Decision]. The
// default implementation (the parse subpackage) tries an ordered list of
// grammar matchers; alternate parsers can be substituted without touching
// the executor's control flow.
type Parser interface {
	// Parse returns the decision encoded in text, or a [*ParseError] when
	// the text matches no known response grammar.
	Parse(text string) (Decision, error)

	// Instruction returns a prompt fragment describing the response format
	// the parser expects, suitable for embedding in the system prompt.
	Instruction() string
}
