package reagent

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall describes a pending tool invocation requested by the assistant.
// Arguments holds the JSON-encoded argument object exactly as it will be
// replayed to the tool, so providers that require an invocation envelope in
// assistant messages can echo it back verbatim.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Message is a single entry in the conversation memory. Messages are treated
// as immutable once appended; the only sanctioned mutation is the metadata
// merge performed by [Memory.MergeLastMetadata] when the final answer is
// recorded.
type Message struct {
	// Role is the chat role of the sender.
	Role Role

	// Content is the textual payload.
	Content string

	// Name carries the tool identity for tool-role messages.
	Name string

	// ToolCallID correlates a tool-role observation with the ToolCall that
	// triggered it.
	ToolCallID string

	// ToolCalls lists pending invocations requested by an assistant message.
	ToolCalls []ToolCall

	// Metadata holds bookkeeping values (priming markers, finish markers).
	Metadata map[string]any
}

// SystemMessage creates a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage creates a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates an assistant-role message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ToolMessage creates a tool-role observation message. The callID correlates
// the observation with the assistant's ToolCall that triggered it.
func ToolMessage(content, name, callID string, metadata map[string]any) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		Name:       name,
		ToolCallID: callID,
		Metadata:   metadata,
	}
}

// MetaBool reports whether the metadata value under key is boolean true.
func (m Message) MetaBool(key string) bool {
	v, ok := m.Metadata[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// MetaString returns the string metadata value under key, or "".
func (m Message) MetaString(key string) string {
	v, ok := m.Metadata[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
