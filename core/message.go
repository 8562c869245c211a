package core

import "strings"

// Role identifies the author kind of a message in the conversation log.
type Role string

const (
	// RoleSystem marks instructions injected by the harness or a test author.
	RoleSystem Role = "system"
	// RoleUser marks content produced on behalf of the simulated user.
	RoleUser Role = "user"
	// RoleAssistant marks content produced by the agent under test.
	RoleAssistant Role = "assistant"
	// RoleTool marks tool call results relayed into the conversation.
	RoleTool Role = "tool"
)

// Message is the immutable unit of conversation history. After being appended
// to a ConversationState it must be treated as read-only; the log is
// append-only with no in-place edits or deletions.
//
// IDs are assigned monotonically by the owning ConversationState at append
// time. A message constructed outside the state carries an empty ID until
// appended.
type Message struct {
	ID    string `json:"id"`
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// NewSystemMessage creates a system message with a single text part.
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Parts: []Part{TextPart{Text: text}}}
}

// NewUserMessage creates a user message with a single text part.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Parts: []Part{TextPart{Text: text}}}
}

// NewAssistantMessage creates an assistant message with a single text part.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Parts: []Part{TextPart{Text: text}}}
}

// NewToolResultMessage records the outcome of a tool call as a tool message.
// If err is non-nil its message is copied into the result's Error field.
func NewToolResultMessage(id, name string, result any, err error) Message {
	tr := ToolResult{ID: id, Name: name, Result: result}
	if err != nil {
		tr.Error = err.Error()
	}
	return Message{Role: RoleTool, Parts: []Part{ToolResultPart{ToolResult: tr}}}
}

// NewTextMessage creates a message of the given role with a single text part.
func NewTextMessage(role Role, text string) Message {
	return Message{Role: role, Parts: []Part{TextPart{Text: text}}}
}

// Text concatenates all text parts of the message preserving order.
func (m Message) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			b.WriteString(tp.Text)
		}
	}
	return b.String()
}

// ToolCalls returns any ToolCall parts contained within the message
// preserving their original order.
func (m Message) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, p := range m.Parts {
		if tc, ok := p.(ToolCallPart); ok {
			calls = append(calls, tc.ToolCall)
		}
	}
	return calls
}

// ToolResults returns any ToolResult parts contained within the message
// preserving their original order.
func (m Message) ToolResults() []ToolResult {
	var results []ToolResult
	for _, p := range m.Parts {
		if tr, ok := p.(ToolResultPart); ok {
			results = append(results, tr.ToolResult)
		}
	}
	return results
}
