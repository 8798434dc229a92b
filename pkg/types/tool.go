package types

// ToolCall represents an invocation request from the LLM
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string
}

// ToolResultStatus is the outcome of a single tool execution.
type ToolResultStatus string

const (
	ToolStatusSuccess ToolResultStatus = "success"
	ToolStatusError   ToolResultStatus = "error"
)

// ToolResult represents the output of a tool execution.
// Exactly one of Data and Error is populated.
type ToolResult struct {
	ToolCallID string           `json:"tool_call_id"`
	Function   string           `json:"function"`
	Status     ToolResultStatus `json:"status"`
	Args       map[string]any   `json:"args,omitempty"`
	Data       any              `json:"data,omitempty"`
	Error      string           `json:"error,omitempty"`
}
