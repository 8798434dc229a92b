// Package tests runs the full stack end to end: the wrapped OpenAI client
// against a scripted model, executing file tools over HTTP against the
// in-memory dev backend.
package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfiles-ai/openfiles-go/pkg/client"
	"github.com/openfiles-ai/openfiles-go/pkg/devserver"
	"github.com/openfiles-ai/openfiles-go/pkg/openai"
	"github.com/openfiles-ai/openfiles-go/pkg/tools"
	"github.com/openfiles-ai/openfiles-go/pkg/types"
)

const apiKey = "oa_e2e1234567890abcdef1234567890abcdef"

// scriptedModel replays canned chat-completion responses in order.
type scriptedModel struct {
	t         *testing.T
	responses []goopenai.ChatCompletionResponse
	requests  []goopenai.ChatCompletionRequest
}

func (s *scriptedModel) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req goopenai.ChatCompletionRequest
		require.NoError(s.t, json.NewDecoder(r.Body).Decode(&req))
		s.requests = append(s.requests, req)
		require.Less(s.t, len(s.requests)-1, len(s.responses))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(s.t, json.NewEncoder(w).Encode(s.responses[len(s.requests)-1]))
	}
}

func assistantToolCall(name, args string) goopenai.ChatCompletionResponse {
	return goopenai.ChatCompletionResponse{
		ID: "chatcmpl-tool-turn",
		Choices: []goopenai.ChatCompletionChoice{{
			Message: goopenai.ChatCompletionMessage{
				Role: goopenai.ChatMessageRoleAssistant,
				ToolCalls: []goopenai.ToolCall{{
					ID:       "call-e2e-1",
					Type:     goopenai.ToolTypeFunction,
					Function: goopenai.FunctionCall{Name: name, Arguments: args},
				}},
			},
			FinishReason: goopenai.FinishReasonToolCalls,
		}},
	}
}

func assistantText(text string) goopenai.ChatCompletionResponse {
	return goopenai.ChatCompletionResponse{
		ID: "chatcmpl-text-turn",
		Choices: []goopenai.ChatCompletionChoice{{
			Message:      goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleAssistant, Content: text},
			FinishReason: goopenai.FinishReasonStop,
		}},
	}
}

// startStack wires a dev backend, a scripted model, and the wrapped client.
func startStack(t *testing.T, model *scriptedModel, basePath string) (*openai.Client, client.FileOperations) {
	t.Helper()

	backend := httptest.NewServer(devserver.NewServer(devserver.Config{APIKey: apiKey}, nil).Engine())
	t.Cleanup(backend.Close)

	modelSrv := httptest.NewServer(model.handler())
	t.Cleanup(modelSrv.Close)

	c, err := openai.New(openai.Options{
		OpenFilesAPIKey:  apiKey,
		OpenFilesBaseURL: backend.URL,
		OpenAIAPIKey:     "sk-e2e",
		OpenAIBaseURL:    modelSrv.URL + "/v1",
		BasePath:         basePath,
	})
	require.NoError(t, err)
	return c, c.Files()
}

func TestEndToEndWriteThroughModel(t *testing.T) {
	model := &scriptedModel{t: t, responses: []goopenai.ChatCompletionResponse{
		assistantToolCall("write_file", `{"path":"notes/meeting.md","content":"# Meeting Notes\n","contentType":"text/markdown"}`),
		assistantText("I created notes/meeting.md for you."),
	}}
	c, files := startStack(t, model, "")

	resp, err := c.CreateChatCompletion(context.Background(), goopenai.ChatCompletionRequest{
		Model: goopenai.GPT4o,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: "take meeting notes"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "I created notes/meeting.md for you.", resp.Choices[0].Message.Content)

	// The file landed in the backend store.
	content, err := files.ReadFile(context.Background(), "notes/meeting.md", nil)
	require.NoError(t, err)
	assert.Equal(t, "# Meeting Notes\n", content)

	// First request carried the full catalog; continuation carried results.
	require.Len(t, model.requests, 2)
	assert.Len(t, model.requests[0].Tools, 8)
	toolMsg := model.requests[1].Messages[len(model.requests[1].Messages)-1]
	assert.Equal(t, goopenai.ChatMessageRoleTool, toolMsg.Role)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(toolMsg.Content), &payload))
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "write_file", payload["operation"])
}

func TestEndToEndScopedWrapper(t *testing.T) {
	model := &scriptedModel{t: t, responses: []goopenai.ChatCompletionResponse{
		assistantToolCall("write_file", `{"path":"config.json","content":"{\"debug\":true}"}`),
		assistantText("done"),
	}}
	c, files := startStack(t, model, "")
	scoped := c.WithBasePath("proj/site")

	_, err := scoped.CreateChatCompletion(context.Background(), goopenai.ChatCompletionRequest{
		Model: goopenai.GPT4o,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: "write the config"},
		},
	})
	require.NoError(t, err)

	// Backend stored the fully scoped path.
	content, err := files.ReadFile(context.Background(), "proj/site/config.json", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"debug":true}`, content)

	// The model saw the scope-relative path in the tool result.
	toolMsg := model.requests[1].Messages[len(model.requests[1].Messages)-1]
	var payload struct {
		Data struct {
			Path string `json:"path"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(toolMsg.Content), &payload))
	assert.Equal(t, "config.json", payload.Data.Path)
}

func TestEndToEndConflictSurfacesToModel(t *testing.T) {
	model := &scriptedModel{t: t, responses: []goopenai.ChatCompletionResponse{
		assistantToolCall("write_file", `{"path":"taken.txt","content":"x"}`),
		assistantText("that file already exists"),
	}}
	c, files := startStack(t, model, "")

	_, err := files.WriteFile(context.Background(), "taken.txt", "original", nil)
	require.NoError(t, err)

	resp, err := c.CreateChatCompletion(context.Background(), goopenai.ChatCompletionRequest{
		Model: goopenai.GPT4o,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: "write taken.txt"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "that file already exists", resp.Choices[0].Message.Content)

	// The original content was not clobbered.
	content, err := files.ReadFile(context.Background(), "taken.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, "original", content)

	toolMsg := model.requests[1].Messages[len(model.requests[1].Messages)-1]
	var payload struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(toolMsg.Content), &payload))
	assert.False(t, payload.Success)
	assert.Equal(t, "EXECUTION_ERROR", payload.Error.Code)
}

func TestEndToEndDirectToolExecution(t *testing.T) {
	backend := httptest.NewServer(devserver.NewServer(devserver.Config{APIKey: apiKey}, nil).Engine())
	t.Cleanup(backend.Close)

	files, err := client.New(apiKey, &client.Options{BaseURL: backend.URL})
	require.NoError(t, err)

	var events []types.FileOperation
	ts := tools.New(files, tools.WithHooks(types.Hooks{
		OnFileOperation: func(op types.FileOperation) { events = append(events, op) },
	}))

	resp := goopenai.ChatCompletionResponse{
		Choices: []goopenai.ChatCompletionChoice{{
			Message: goopenai.ChatCompletionMessage{
				Role: goopenai.ChatMessageRoleAssistant,
				ToolCalls: []goopenai.ToolCall{
					{
						ID:   "call-1",
						Type: goopenai.ToolTypeFunction,
						Function: goopenai.FunctionCall{
							Name:      "write_file",
							Arguments: `{"path":"pipeline.log","content":"step one\n"}`,
						},
					},
					{
						ID:   "call-2",
						Type: goopenai.ToolTypeFunction,
						Function: goopenai.FunctionCall{
							Name:      "append_to_file",
							Arguments: `{"path":"pipeline.log","content":"step two\n"}`,
						},
					},
					{
						ID:   "call-3",
						Type: goopenai.ToolTypeFunction,
						Function: goopenai.FunctionCall{
							Name:      "read_file",
							Arguments: `{"path":"pipeline.log"}`,
						},
					},
				},
			},
		}},
	}

	processed := ts.OpenAI().ProcessToolCalls(context.Background(), resp)
	require.True(t, processed.Handled)
	require.Len(t, processed.Results, 3)
	for _, result := range processed.Results {
		assert.Equal(t, types.ToolStatusSuccess, result.Status)
	}

	// Sequential execution: the read observed both prior writes.
	var payload struct {
		Data struct {
			Content string `json:"content"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(processed.ToolMessages[2].Content), &payload))
	assert.Equal(t, "step one\nstep two\n", payload.Data.Content)

	require.Len(t, events, 3)
	assert.Equal(t, "write_file", events[0].Action)
	assert.Equal(t, "append_to_file", events[1].Action)
	assert.Equal(t, "read_file", events[2].Action)
}
