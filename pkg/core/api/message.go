// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

package api

// Message represents a chat message in a conversation. The ordered message
// sequence is the conversation; insertion order is meaningful and is never
// rewritten once a message has been appended.
type Message struct {
	Role       string     `json:"role"`                   // "system", "user", "assistant", "tool"
	Content    string     `json:"content"`                // Message text content
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // Tool calls (assistant messages)
	ToolCallID string     `json:"tool_call_id,omitempty"` // Tool call ID (tool messages)
}

// ToolCall represents a tool call made by the assistant.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"` // "function"
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction contains the function name and arguments for a tool call.
// Arguments is the raw JSON string produced by the model.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}
