package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kaptinlin/jsonrepair"

	"github.com/reagentkit/reagent"
)

// Key paths accepted for provider compatibility: different models put the
// tool name, argument object and answer under different keys.
var (
	toolNameKeys = []string{"tool", "tool_name", "name", "action"}
	argumentKeys = []string{"input", "arguments", "args", "action_input"}
	answerKeys   = []string{"final_answer", "output"}
)

// StructuredMatcher recognizes the primary grammar: a JSON object with a
// "type" discriminator of "tool" or "finish". When the discriminator is
// absent, intent is inferred from which keys are present. Near-JSON output
// (code fences, single quotes, trailing commas) is repaired before giving
// up on this dialect.
type StructuredMatcher struct{}

// Name implements [Matcher].
func (m *StructuredMatcher) Name() string {
	return "structured"
}

// Match implements [Matcher]. Text that does not decode to a JSON object is
// not in this dialect; a decoded object that violates the grammar (missing
// tool name, missing answer, unsupported type) is a hard parse failure.
func (m *StructuredMatcher) Match(text string) (reagent.Decision, bool, error) {
	data, ok := decodeObject(text)
	if !ok {
		return reagent.Decision{}, false, nil
	}

	kind, _ := data["type"].(string)
	switch kind {
	case "tool":
		decision, err := m.toolDecision(data, text)
		return decision, true, err
	case "finish":
		decision, err := m.finishDecision(data)
		return decision, true, err
	case "":
		// No discriminator: infer intent from the keys present.
		if _, found := firstString(data, toolNameKeys); found {
			decision, err := m.toolDecision(data, text)
			return decision, true, err
		}
		if _, found := firstValue(data, answerKeys); found {
			decision, err := m.finishDecision(data)
			return decision, true, err
		}
		return reagent.Decision{}, true, fmt.Errorf("missing type discriminator and no recognizable keys")
	default:
		return reagent.Decision{}, true, fmt.Errorf("unsupported response type %q", kind)
	}
}

func (m *StructuredMatcher) toolDecision(data map[string]any, raw string) (reagent.Decision, error) {
	name, found := firstString(data, toolNameKeys)
	if !found || name == "" {
		return reagent.Decision{}, fmt.Errorf("missing tool name")
	}

	args := map[string]any{}
	if v, ok := firstValue(data, argumentKeys); ok && v != nil {
		obj, isObject := v.(map[string]any)
		if !isObject {
			return reagent.Decision{}, fmt.Errorf("tool input must be an object")
		}
		args = obj
	}

	rationale, _ := data["thought"].(string)
	callID, _ := firstString(data, []string{"call_id", "id"})
	if callID == "" {
		callID = NewCallID()
	}

	return reagent.ToolDecision(&reagent.AgentAction{
		Tool:      name,
		Arguments: args,
		Rationale: rationale,
		CallID:    callID,
		Raw:       raw,
	}), nil
}

func (m *StructuredMatcher) finishDecision(data map[string]any) (reagent.Decision, error) {
	// The answer keys are tried in order; nil and "" count as absent, so a
	// finish always carries non-empty output.
	output := ""
	for _, key := range answerKeys {
		value, ok := data[key]
		if !ok || value == nil {
			continue
		}
		if s, isString := value.(string); isString {
			if s == "" {
				continue
			}
			output = s
			break
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return reagent.Decision{}, fmt.Errorf("unencodable final answer: %w", err)
		}
		output = string(encoded)
		break
	}
	if output == "" {
		return reagent.Decision{}, fmt.Errorf("missing final answer")
	}

	rationale, _ := data["thought"].(string)
	return reagent.FinishDecision(&reagent.AgentFinish{
		Output:    output,
		Rationale: rationale,
	}), nil
}

// decodeObject decodes text into a JSON object, attempting a repair pass
// when strict decoding fails. Scalars and arrays are not candidates for
// this dialect.
func decodeObject(text string) (map[string]any, bool) {
	var data map[string]any
	if err := json.Unmarshal([]byte(text), &data); err == nil {
		return data, true
	}

	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return nil, false
	}
	// Repair can turn prose into a bare JSON string; only objects count.
	if !strings.HasPrefix(strings.TrimSpace(repaired), "{") {
		return nil, false
	}
	if err := json.Unmarshal([]byte(repaired), &data); err != nil {
		return nil, false
	}
	return data, true
}

// firstString returns the first string value found under the given keys. A
// nested object with a "name" field is also accepted, for providers that
// wrap the tool reference.
func firstString(data map[string]any, keys []string) (string, bool) {
	for _, key := range keys {
		v, ok := data[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			return t, true
		case map[string]any:
			if name, ok := t["name"].(string); ok {
				return name, true
			}
		}
	}
	return "", false
}

// firstValue returns the first value present under the given keys.
func firstValue(data map[string]any, keys []string) (any, bool) {
	for _, key := range keys {
		if v, ok := data[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// NewCallID synthesizes a unique tool-call id for responses that carry
// none.
func NewCallID() string {
	return "call-" + uuid.NewString()
}
