package parse

import (
	"github.com/reagentkit/reagent"
)

// PlainTextMatcher is the tertiary grammar: the entire trimmed text becomes
// a finish carrying [reagent.FallbackRationale]. It matches every non-empty
// input, so it must be the last matcher in the list; empty input is
// rejected by the parser before matchers run.
type PlainTextMatcher struct{}

// Name implements [Matcher].
func (m *PlainTextMatcher) Name() string {
	return "plain_text"
}

// Match implements [Matcher].
func (m *PlainTextMatcher) Match(text string) (reagent.Decision, bool, error) {
	return reagent.FinishDecision(&reagent.AgentFinish{
		Output:    text,
		Rationale: reagent.FallbackRationale,
	}), true, nil
}
