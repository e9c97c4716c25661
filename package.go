// Package reagent implements a ReAct-style agent loop in Go: the model
// reasons, optionally calls a tool, observes the result, and repeats
// until it produces a final answer or exhausts its turn budget.
//
// The root package holds the building blocks: conversation [Memory],
// the tool [Registry], the [Planner] and [Parser] contracts, and the
// [Executor] driving the turn loop. The subpackages supply the default
// implementations: parse (multi-dialect response parsing), models
// (LangChainGo-backed chat clients), schema (argument validation), and
// agent (a facade wiring everything together).
//
// # Quick Start
//
// The smallest useful agent is a chat client plus one tool:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "os"
//
//	    "github.com/reagentkit/reagent"
//	    "github.com/reagentkit/reagent/agent"
//	    "github.com/reagentkit/reagent/models"
//	)
//
//	func main() {
//	    client, err := models.NewOpenAI("gpt-4o-mini", os.Getenv("OPENAI_API_KEY"))
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    calculator := reagent.NewToolFunc(
//	        "calculator",
//	        "Evaluates an arithmetic expression",
//	        map[string]any{
//	            "type": "object",
//	            "properties": map[string]any{
//	                "expression": map[string]any{"type": "string"},
//	            },
//	            "required": []any{"expression"},
//	        },
//	        func(ctx context.Context, args map[string]any) (*reagent.ToolResult, error) {
//	            // evaluate args["expression"] ...
//	            return &reagent.ToolResult{Content: "31.5"}, nil
//	        },
//	    )
//
//	    a, err := agent.New(agent.Config{
//	        Client: client,
//	        Tools:  []reagent.Tool{calculator},
//	    })
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    result, err := a.Run(context.Background(), "What is (24 + 18) * 0.75?")
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(result.Output)
//	}
//
// # Execution model
//
// A run is primed once: the task, the plan and the tool catalog are
// rendered into a user message tagged with metadata, so re-running the
// same task against the same memory never duplicates the prompt. Each
// turn the executor sends the system prompt plus the full conversation,
// appends the raw reply, and parses it into a decision. Tool calls are
// validated against their JSON Schema, dispatched, and their
// observations appended under the originating call id. A finish ends
// the run; spending the whole turn budget fails it with
// [ErrTurnsExceeded].
//
// All failures are fatal for the run. There is no retry or self-repair
// inside the loop: a malformed response, an unknown tool, failed
// argument validation, a tool error or a transport error surfaces
// immediately as a typed error, with everything appended so far left in
// memory for inspection.
package reagent
