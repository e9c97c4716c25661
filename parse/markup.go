package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/reagentkit/reagent"
)

// Inline function-call delimiter tokens, as emitted by DashScope-style
// models that interleave free-form reasoning with a marked-up tool call.
const (
	markupFunctionToken = "✿FUNCTION✿"
	markupArgsToken     = "✿ARGS✿"
	markupResultToken   = "✿RESULT✿"
	markupReturnToken   = "✿RETURN✿"
)

// MarkupMatcher recognizes the secondary grammar: free-form reasoning text
// followed by an inline tool-call markup block. The reasoning text becomes
// the action's rationale.
//
//	I need to evaluate the expression first.
//	✿FUNCTION✿: calculator
//	✿ARGS✿: {"expression": "(24+18)*0.75"}
type MarkupMatcher struct{}

// Name implements [Matcher].
func (m *MarkupMatcher) Name() string {
	return "markup"
}

// Match implements [Matcher]. Text without the function token is not in
// this dialect; a function token with a missing name or undecodable
// argument blob is a hard parse failure.
func (m *MarkupMatcher) Match(text string) (reagent.Decision, bool, error) {
	fnStart := strings.Index(text, markupFunctionToken)
	if fnStart < 0 {
		return reagent.Decision{}, false, nil
	}

	rationale := strings.TrimSpace(text[:fnStart])

	rest := text[fnStart+len(markupFunctionToken):]
	rest = strings.TrimPrefix(rest, ":")

	name := rest
	argsBlob := ""
	if argsStart := strings.Index(rest, markupArgsToken); argsStart >= 0 {
		name = rest[:argsStart]
		argsBlob = rest[argsStart+len(markupArgsToken):]
		argsBlob = strings.TrimPrefix(strings.TrimSpace(argsBlob), ":")
	}

	// Anything after a result/return token belongs to a later exchange.
	for _, token := range []string{markupResultToken, markupReturnToken} {
		if end := strings.Index(argsBlob, token); end >= 0 {
			argsBlob = argsBlob[:end]
		}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return reagent.Decision{}, true, fmt.Errorf("inline markup missing tool name")
	}

	args := map[string]any{}
	if blob := strings.TrimSpace(argsBlob); blob != "" {
		if err := json.Unmarshal([]byte(blob), &args); err != nil {
			repaired, rerr := jsonrepair.JSONRepair(blob)
			if rerr != nil {
				return reagent.Decision{}, true, fmt.Errorf("inline markup arguments: %w", err)
			}
			if err := json.Unmarshal([]byte(repaired), &args); err != nil {
				return reagent.Decision{}, true, fmt.Errorf("inline markup arguments: %w", err)
			}
		}
	}

	return reagent.ToolDecision(&reagent.AgentAction{
		Tool:      name,
		Arguments: args,
		Rationale: rationale,
		CallID:    NewCallID(),
		Raw:       text,
	}), true, nil
}
