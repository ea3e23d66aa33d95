// Package protocol defines the conversation message types shared by the
// session store, the trimmer, and the model-invocation layer.
package protocol

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall records a tool invocation requested by an assistant message.
// Arguments is the raw JSON string handed to the tool handler.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is a single element of a session transcript. Role indicates the
// sender and Content carries the text payload. Assistant messages that
// request tools carry ToolCalls; the tool result messages that follow carry
// a ToolCallID correlating back to the request.
//
// Messages are immutable once appended to a transcript; the transcript is
// append-only until trimmed.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// NewMessage creates a Message with the given role and content.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// IsToolResult reports whether the message is a tool-result message.
func (m Message) IsToolResult() bool {
	return m.Role == RoleTool
}

// RequestsTools reports whether the message is an assistant message that
// requested at least one tool invocation.
func (m Message) RequestsTools() bool {
	return m.Role == RoleAssistant && len(m.ToolCalls) > 0
}
