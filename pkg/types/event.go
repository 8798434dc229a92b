package types

import "time"

// FileOperation is emitted once per executed file tool call.
type FileOperation struct {
	Action  string `json:"action"`
	Path    string `json:"path,omitempty"`
	Version int    `json:"version,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ToolExecution is emitted once per executed tool call with timing info.
type ToolExecution struct {
	ToolCallID string        `json:"tool_call_id"`
	Function   string        `json:"function"`
	Success    bool          `json:"success"`
	Result     any           `json:"result,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Hooks carries optional observer callbacks. All callbacks are
// fire-and-forget: return values are not consumed and they never
// influence control flow.
type Hooks struct {
	OnFileOperation func(FileOperation)
	OnToolExecution func(ToolExecution)
	OnError         func(error)
}

// FireFileOperation invokes OnFileOperation if set.
func (h Hooks) FireFileOperation(op FileOperation) {
	if h.OnFileOperation != nil {
		h.OnFileOperation(op)
	}
}

// FireToolExecution invokes OnToolExecution if set.
func (h Hooks) FireToolExecution(exec ToolExecution) {
	if h.OnToolExecution != nil {
		h.OnToolExecution(exec)
	}
}

// FireError invokes OnError if set.
func (h Hooks) FireError(err error) {
	if h.OnError != nil && err != nil {
		h.OnError(err)
	}
}
