package tools

import (
	"context"

	"github.com/openfiles-ai/openfiles-go/pkg/anthropic"
	"github.com/openfiles-ai/openfiles-go/pkg/types"
)

// AnthropicProvider renders the catalog in the Anthropic tool-use format
// and processes Messages API responses. Parameter names, types and required
// sets are identical to the OpenAI variant; only the envelope differs.
type AnthropicProvider struct {
	tools *Tools
}

// Definitions returns the catalog as Anthropic tool definitions.
func (p *AnthropicProvider) Definitions() []anthropic.Tool {
	defs := Catalog()
	out := make([]anthropic.Tool, len(defs))
	for i, def := range defs {
		out[i] = anthropic.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.Parameters,
		}
	}
	return out
}

// IsCatalogTool reports whether name belongs to this catalog.
func (p *AnthropicProvider) IsCatalogTool(name string) bool { return IsCatalogTool(name) }

// AnthropicProcessedToolCalls is the outcome of processing one Messages API
// response. ToolResultMessage is a single user message batching one
// tool_result block per executed call; it is nil when nothing was handled.
type AnthropicProcessedToolCalls struct {
	Handled           bool
	Results           []types.ToolResult
	ToolResultMessage *anthropic.Message
}

// ProcessToolCalls executes every catalog tool_use block in resp, strictly
// sequentially in model order, skipping blocks for unrelated tools.
func (p *AnthropicProvider) ProcessToolCalls(ctx context.Context, resp *anthropic.MessageResponse) *AnthropicProcessedToolCalls {
	processed := &AnthropicProcessedToolCalls{}
	if resp == nil {
		return processed
	}

	var blocks []anthropic.ContentBlock
	for _, use := range resp.ToolUses() {
		if !IsCatalogTool(use.Name) {
			continue
		}
		result := p.tools.processCall(ctx, types.ToolCall{
			ID:        use.ID,
			Name:      use.Name,
			Arguments: string(use.Input),
		})
		processed.Results = append(processed.Results, result)
		blocks = append(blocks, anthropic.ContentBlock{
			Type:      anthropic.BlockTypeToolResult,
			ToolUseID: result.ToolCallID,
			Content:   encodeResult(result),
			IsError:   result.Status == types.ToolStatusError,
		})
	}

	if len(blocks) > 0 {
		processed.Handled = true
		processed.ToolResultMessage = &anthropic.Message{
			Role:    anthropic.RoleUser,
			Content: blocks,
		}
	}
	return processed
}
