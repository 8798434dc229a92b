package tools

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/openfiles-ai/openfiles-go/pkg/types"
)

// OpenAIProvider renders the catalog in the OpenAI function-calling format
// and processes chat-completion responses.
type OpenAIProvider struct {
	tools *Tools
}

// Definitions returns the catalog as go-openai tool values, ready to attach
// to a ChatCompletionRequest.
func (p *OpenAIProvider) Definitions() []openai.Tool {
	defs := Catalog()
	out := make([]openai.Tool, len(defs))
	for i, def := range defs {
		out[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Strict:      true,
				Parameters:  def.Parameters,
			},
		}
	}
	return out
}

// IsCatalogTool reports whether name belongs to this catalog.
func (p *OpenAIProvider) IsCatalogTool(name string) bool { return IsCatalogTool(name) }

// ProcessedToolCalls is the outcome of processing one chat-completion
// response: Handled is false when no catalog tool call was present, and
// ToolMessages carries one role:"tool" message per executed call in order.
type ProcessedToolCalls struct {
	Handled      bool
	Results      []types.ToolResult
	ToolMessages []openai.ChatCompletionMessage
}

// ProcessToolCalls executes every catalog tool call found in resp, strictly
// sequentially in the order the model returned them. Tool calls that do not
// belong to the catalog are skipped without error. Per-call failures become
// error results; they never abort the remaining calls.
func (p *OpenAIProvider) ProcessToolCalls(ctx context.Context, resp openai.ChatCompletionResponse) *ProcessedToolCalls {
	processed := &ProcessedToolCalls{}
	for _, choice := range resp.Choices {
		for _, tc := range choice.Message.ToolCalls {
			if tc.Type != "" && tc.Type != openai.ToolTypeFunction {
				continue
			}
			if !IsCatalogTool(tc.Function.Name) {
				continue
			}
			result := p.tools.processCall(ctx, types.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
			processed.Results = append(processed.Results, result)
			processed.ToolMessages = append(processed.ToolMessages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: result.ToolCallID,
				Content:    encodeResult(result),
			})
		}
	}
	processed.Handled = len(processed.Results) > 0
	return processed
}
