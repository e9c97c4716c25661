package reagent

// Memory is the ordered, append-only conversation log. Its sequence IS the
// context window sent to the model: insertion order is significant, nothing
// is ever reordered or removed within a run.
//
// Memory is the single source of truth shared by priming, planning and the
// turn loop. Components that need a stable view while iterating must take a
// [Memory.Snapshot]; none of them keep a private copy otherwise.
//
// Memory is not safe for concurrent use. A run mutates it exclusively, and
// callers reusing one Memory across runs must not run two tasks against it
// at the same time.
type Memory struct {
	messages []Message
}

// NewMemory creates an empty conversation memory.
func NewMemory() *Memory {
	return &Memory{messages: make([]Message, 0)}
}

// Append adds a message to the end of the conversation. It performs no
// validation of role sequencing; callers are responsible for the
// conversation grammar.
func (m *Memory) Append(msg Message) {
	m.messages = append(m.messages, msg)
}

// Extend appends a batch of messages in order.
func (m *Memory) Extend(msgs []Message) {
	m.messages = append(m.messages, msgs...)
}

// Snapshot returns an independent copy of the current message sequence. The
// model-call step iterates over a snapshot so that appends performed during
// the turn cannot mutate the context it is sending.
func (m *Memory) Snapshot() []Message {
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Last returns the most recent message. The second return value is false
// when the memory is empty.
func (m *Memory) Last() (Message, bool) {
	if len(m.messages) == 0 {
		return Message{}, false
	}
	return m.messages[len(m.messages)-1], true
}

// Len returns the number of messages recorded.
func (m *Memory) Len() int {
	return len(m.messages)
}

// MergeLastMetadata merges the given metadata into the most recent message
// in place. This is the narrowly scoped exception to message immutability,
// used when the final answer is recorded onto an assistant message that
// already carries identical content. It is a no-op on an empty memory.
func (m *Memory) MergeLastMetadata(metadata map[string]any) {
	if len(m.messages) == 0 || len(metadata) == 0 {
		return
	}
	last := &m.messages[len(m.messages)-1]
	if last.Metadata == nil {
		last.Metadata = make(map[string]any, len(metadata))
	}
	for k, v := range metadata {
		last.Metadata[k] = v
	}
}
