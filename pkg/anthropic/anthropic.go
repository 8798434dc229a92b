// Package anthropic defines the subset of the Anthropic Messages API wire
// format needed to attach tools and return tool results. There is no HTTP
// client here; callers bring their own transport and exchange these types.
package anthropic

import (
	"encoding/json"

	"github.com/openfiles-ai/openfiles-go/pkg/types"
)

// Content block types.
const (
	BlockTypeText       = "text"
	BlockTypeToolUse    = "tool_use"
	BlockTypeToolResult = "tool_result"
)

// Roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Tool is a tool definition in the Messages API format.
type Tool struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema types.JSONSchema `json:"input_schema"`
}

// ContentBlock is one block in a message's content array. Different fields
// are populated depending on Type.
type ContentBlock struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

// Message is a conversation message.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// MessageResponse is the response body of a Messages API call.
type MessageResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason,omitempty"`
}

// ToolUses returns the tool_use blocks of a response in order.
func (r *MessageResponse) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, block := range r.Content {
		if block.Type == BlockTypeToolUse {
			uses = append(uses, block)
		}
	}
	return uses
}
