package tt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/reagentkit/reagent"
)

// FormatTranscript renders messages as one line per message, in the
// form "role[!markers]: content". Tool calls and observation ids are
// included so pairing mistakes show up in diffs.
func FormatTranscript(messages []reagent.Message) string {
	var sb strings.Builder
	for _, msg := range messages {
		sb.WriteString(string(msg.Role))
		if msg.MetaBool(reagent.MetaTaskPrompt) {
			sb.WriteString("[task_prompt]")
		}
		if msg.MetaBool(reagent.MetaFinalAnswer) {
			sb.WriteString("[final_answer]")
		}
		if msg.ToolCallID != "" {
			fmt.Fprintf(&sb, "[call=%s]", msg.ToolCallID)
		}
		for _, call := range msg.ToolCalls {
			fmt.Fprintf(&sb, "[->%s#%s %s]", call.Name, call.ID, call.Arguments)
		}
		sb.WriteString(": ")
		sb.WriteString(strings.ReplaceAll(msg.Content, "\n", "\\n"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// AssertTranscript fails the test with a unified diff when the rendered
// transcript does not match expected.
func AssertTranscript(t *testing.T, expected string, messages []reagent.Message) {
	t.Helper()
	actual := FormatTranscript(messages)
	if actual == expected {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		t.Fatalf("transcript mismatch (diff failed: %v)\nexpected:\n%s\nactual:\n%s", err, expected, actual)
	}
	t.Fatalf("transcript mismatch:\n%s", diff)
}
