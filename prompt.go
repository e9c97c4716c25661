package reagent

import (
	"strings"
	"text/template"
)

// DefaultSystemPrompt is the fixed instruction prompt the executor prepends
// to every model call.
const DefaultSystemPrompt = `You are an AI assistant that can reason about complex tasks and call tools.
Follow the ReAct pattern: think about what to do, decide whether to call a tool,
observe the result, and continue until you can provide a final answer.
Always respond strictly in JSON matching the documented schema.`

// PlannerSystemPrompt instructs the model when decomposing a task into steps.
const PlannerSystemPrompt = `You are an expert operations planner for a ReAct-style AI assistant.
Break down the user's task into concise, non-overlapping steps that can be executed sequentially.
Return the plan as JSON with a "steps" array where each entry is an object containing a "description" field.
If the task is already simple, you may return a single step.`

// PromptRenderer builds the one-time priming prompt from the task, the
// rendered plan and the tool catalog. It must be a pure function; the
// executor calls it once per run.
type PromptRenderer func(task, planText, toolListing string) string

// TaskPromptData is the data passed to the priming prompt template.
type TaskPromptData struct {
	Task  string
	Plan  string
	Tools string
}

var taskPromptTemplate = template.Must(template.New("task_prompt").Parse(
	`Task: {{.Task}}

Current plan:
{{.Plan}}

Available tools:
{{.Tools}}

Respond with JSON describing either a tool call or the final answer.`))

// BuildTaskPrompt is the default [PromptRenderer]. An empty plan renders as
// "No explicit plan was created." and an empty tool listing as "No tools
// available.", so the priming prompt always has the same shape.
func BuildTaskPrompt(task, planText, toolListing string) string {
	data := TaskPromptData{
		Task:  task,
		Plan:  strings.TrimSpace(planText),
		Tools: strings.TrimSpace(toolListing),
	}
	if data.Plan == "" {
		data.Plan = "No explicit plan was created."
	}
	if data.Tools == "" {
		data.Tools = "No tools available."
	}

	var sb strings.Builder
	if err := taskPromptTemplate.Execute(&sb, data); err != nil {
		// The template only references fields that exist; execution cannot
		// fail with TaskPromptData.
		panic(err)
	}
	return sb.String()
}
