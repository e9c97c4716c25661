// Package parse classifies raw model output into agent decisions.
//
// The parser runs an ordered list of independent grammar matchers, each
// recognizing one response dialect:
//
//  1. Structured JSON with a "type" discriminator (repairing near-JSON
//     output from providers that wrap it in fences or single quotes).
//  2. Inline function-call markup: delimiter tokens embedding a tool name
//     and a JSON argument blob after free-form reasoning text.
//  3. Plain text: any non-empty response becomes a fallback finish.
//
// New provider dialects are added by inserting a [Matcher] rather than
// modifying existing ones.
package parse

import (
	"errors"
	"strings"

	"github.com/reagentkit/reagent"
)

var errEmptyResponse = errors.New("empty response")

// Matcher recognizes one response dialect. Match returns ok=false when the
// text is not in this dialect (the parser moves on to the next matcher) and
// a non-nil error when the text is in this dialect but malformed (the
// parser fails without trying further matchers).
type Matcher interface {
	Name() string
	Match(text string) (decision reagent.Decision, ok bool, err error)
}

// Parser tries its matchers in order and implements [reagent.Parser].
type Parser struct {
	matchers []Matcher
}

// New creates a parser with the default matcher order: structured JSON,
// inline markup, plain text.
func New() *Parser {
	return &Parser{
		matchers: []Matcher{
			&StructuredMatcher{},
			&MarkupMatcher{},
			&PlainTextMatcher{},
		},
	}
}

// NewWithMatchers creates a parser with an explicit matcher list, tried in
// the given order.
func NewWithMatchers(matchers ...Matcher) *Parser {
	return &Parser{matchers: matchers}
}

// Parse classifies one model response. Grammar failures come back as
// [*reagent.ParseError] carrying the raw text; nothing is silently coerced.
func (p *Parser) Parse(text string) (reagent.Decision, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return reagent.Decision{}, &reagent.ParseError{Raw: text, Err: errEmptyResponse}
	}

	for _, matcher := range p.matchers {
		decision, ok, err := matcher.Match(trimmed)
		if err != nil {
			return reagent.Decision{}, &reagent.ParseError{Raw: text, Err: err}
		}
		if ok {
			return decision, nil
		}
	}

	return reagent.Decision{}, &reagent.ParseError{Raw: text, Err: errors.New("no grammar matched")}
}

// Instruction returns the response-format contract embedded in prompts.
func (p *Parser) Instruction() string {
	return `Respond with a single JSON object:
{"type": "tool", "tool": "<name>", "input": {...}, "thought": "<reasoning>"}
or, when you can answer:
{"type": "finish", "final_answer": "<text>", "thought": "<reasoning>"}`
}
