package reagent

import (
	"errors"
	"fmt"
)

// ErrTurnsExceeded is returned when the executor reaches its configured turn
// budget without the model producing a final answer. It is a fatal run
// failure; the executor never silently returns a partial answer.
var ErrTurnsExceeded = errors.New("reagent: turn budget exceeded without a final answer")

// ParseError indicates a model response that matched none of the known
// response grammars. It carries the raw text so callers can log or inspect
// the offending output; the engine never coerces an unparseable response
// into anything else.
type ParseError struct {
	// Raw is the unmodified model output.
	Raw string

	// Err describes which grammar rule failed.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("reagent: unparseable model response: %v (raw: %q)", e.Err, e.Raw)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnknownToolError indicates the model requested a tool that is not present
// in the registry. Fatal, not retried.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("reagent: unknown tool %q", e.Name)
}

// DuplicateToolError indicates a second registration under an existing tool
// name. Registration is a construction-time concern, so this is treated as
// a fatal configuration error; the first registration is unaffected.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("reagent: tool %q already registered", e.Name)
}

// ToolExecutionError wraps an error raised by tool logic during dispatch.
// Tool failures abort the run: the agent is intentionally not shown its own
// tool error as an observation to retry against.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("reagent: tool %q failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// TransportError wraps a failure from the model chat endpoint: a non-success
// status, a network problem, or a response envelope the wrapper could not
// interpret. It is surfaced to the run caller unchanged.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("reagent: model transport failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
