package reagent

// FallbackRationale is the sentinel rationale marking an [AgentFinish] that
// was derived from unstructured text rather than an explicit finish grammar.
// The executor treats such finishes specially: it attempts a best-effort
// summarization rewrite before returning them.
const FallbackRationale = "__fallback_plain__"

// AgentAction is the tool branch of the parser's decision: the model asked
// for a tool invocation.
type AgentAction struct {
	// Tool is the registered name of the tool to invoke.
	Tool string

	// Arguments is the parsed argument object.
	Arguments map[string]any

	// Rationale is the model's stated reasoning, "" when absent.
	Rationale string

	// CallID correlates the invocation with its observation. When the model
	// supplies no explicit id, the parser synthesizes a unique one.
	CallID string

	// Raw is the exact model payload the action was parsed from, kept for
	// replay when logging.
	Raw string
}

// AgentFinish is the terminal branch of the parser's decision: the model
// produced a final answer.
type AgentFinish struct {
	// Output is the final answer text. The executor guarantees it is
	// non-empty by the time a run returns.
	Output string

	// Rationale is the model's stated reasoning, or [FallbackRationale] for
	// finishes recovered from plain unstructured text.
	Rationale string
}

// DecisionKind tags the two variants of [Decision].
type DecisionKind int

const (
	// DecisionToolCall indicates the Action field is set.
	DecisionToolCall DecisionKind = iota + 1

	// DecisionFinish indicates the Finish field is set.
	DecisionFinish
)

// Decision is the tagged union produced by a response parser: exactly one of
// Action or Finish is set, according to Kind. The executor switches
// exhaustively on the tag.
type Decision struct {
	Kind   DecisionKind
	Action *AgentAction
	Finish *AgentFinish
}

// ToolDecision wraps an action into the tool-call variant.
func ToolDecision(action *AgentAction) Decision {
	return Decision{Kind: DecisionToolCall, Action: action}
}

// FinishDecision wraps a finish into the terminal variant.
func FinishDecision(finish *AgentFinish) Decision {
	return Decision{Kind: DecisionFinish, Finish: finish}
}
