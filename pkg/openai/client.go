// Package openai wraps the OpenAI chat-completions client so that file
// tools "just work": tool schemas are injected into every create call,
// matching tool calls are executed against the OpenFiles backend, and the
// model is called once more with the results appended.
//
// The wrapper composes the vendor client rather than subclassing it; the
// underlying client stays fully usable through SDK().
package openai

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/openfiles-ai/openfiles-go/pkg/client"
	"github.com/openfiles-ai/openfiles-go/pkg/tools"
	"github.com/openfiles-ai/openfiles-go/pkg/types"
)

// Options configures the wrapper.
type Options struct {
	// OpenFilesAPIKey authenticates against the file backend. Required.
	OpenFilesAPIKey string
	// OpenFilesBaseURL overrides the default backend endpoint.
	OpenFilesBaseURL string
	// OpenAIAPIKey authenticates the chat-completions client. Required
	// unless the wrapper is constructed with Wrap.
	OpenAIAPIKey string
	// OpenAIBaseURL overrides the OpenAI endpoint (proxies, test servers).
	OpenAIBaseURL string
	// BasePath scopes every file operation performed by tool calls.
	BasePath string
	// Hooks receives file-operation and tool-execution events.
	Hooks types.Hooks
	// Logger receives structured logs. Nil disables logging.
	Logger *slog.Logger
	// HTTPClient optionally supplies the transport for the file backend.
	HTTPClient *http.Client
}

// Client is a drop-in chat-completions client with file tools attached.
type Client struct {
	sdk   *goopenai.Client
	files client.FileOperations
	tools *tools.Tools
	log   *slog.Logger
}

// New builds the vendor client and the backend client from options.
func New(opts Options) (*Client, error) {
	files, err := client.New(opts.OpenFilesAPIKey, &client.Options{
		BaseURL:    opts.OpenFilesBaseURL,
		BasePath:   opts.BasePath,
		Logger:     opts.Logger,
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	cfg := goopenai.DefaultConfig(opts.OpenAIAPIKey)
	if opts.OpenAIBaseURL != "" {
		cfg.BaseURL = opts.OpenAIBaseURL
	}
	return Wrap(goopenai.NewClientWithConfig(cfg), files, opts), nil
}

// Wrap decorates an existing vendor client with file tools. The base path
// scoping applied here lives in the tool layer, so the same backend client
// can be shared across wrappers.
func Wrap(sdk *goopenai.Client, files client.FileOperations, opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		sdk:   sdk,
		files: files,
		tools: tools.New(files, tools.WithHooks(opts.Hooks), tools.WithLogger(log)),
		log:   log,
	}
}

// SDK exposes the wrapped vendor client for calls that should bypass tool
// handling entirely.
func (c *Client) SDK() *goopenai.Client { return c.sdk }

// Files exposes the backend client bound to this wrapper.
func (c *Client) Files() client.FileOperations { return c.files }

// WithBasePath derives a scoped wrapper sharing the vendor client. The
// receiver is unchanged.
func (c *Client) WithBasePath(segment string) *Client {
	clone := *c
	clone.tools = c.tools.WithBasePath(segment)
	return &clone
}

// CreateChatCompletion sends the request with file tools attached and runs
// the tool round-trip:
//
//  1. Catalog tools are injected ahead of any caller-supplied tools and
//     parallel tool calls are disabled, so file operations within one turn
//     execute in order.
//  2. If the response contains catalog tool calls they are executed
//     sequentially; unrelated tool calls are left for the caller.
//  3. With at least one executed call, the assistant message and one tool
//     message per call are appended and the model is called exactly once
//     more. The continuation response is returned as the final result.
//
// The continuation is a single hop: tool calls inside the continuation
// response are not executed again. Per-call execution errors are reported
// to the model inline and never abort the turn; only errors from the model
// calls themselves are returned.
//
// Streaming requests pass through unmodified, without tool execution.
func (c *Client) CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	if req.Stream {
		// Tool execution is only supported on the non-streaming path; the
		// request goes to the vendor client untouched.
		return c.sdk.CreateChatCompletion(ctx, req)
	}

	provider := c.tools.OpenAI()
	req.Tools = append(provider.Definitions(), req.Tools...)
	req.ParallelToolCalls = false

	resp, err := c.sdk.CreateChatCompletion(ctx, req)
	if err != nil {
		return resp, err
	}

	processed := provider.ProcessToolCalls(ctx, resp)
	if !processed.Handled {
		return resp, nil
	}
	c.log.Debug("executed file tool calls", "count", len(processed.Results))

	continuation := req
	continuation.Messages = append(continuation.Messages, assistantMessages(resp)...)
	continuation.Messages = append(continuation.Messages, processed.ToolMessages...)
	return c.sdk.CreateChatCompletion(ctx, continuation)
}

// CreateChatCompletionStream passes straight through to the vendor client.
// No tool schemas are injected and no tool calls are executed.
func (c *Client) CreateChatCompletionStream(ctx context.Context, req goopenai.ChatCompletionRequest) (*goopenai.ChatCompletionStream, error) {
	return c.sdk.CreateChatCompletionStream(ctx, req)
}

// assistantMessages extracts the assistant messages that carried tool
// calls, preserving response order. The continuation conversation must
// contain them ahead of the tool results.
func assistantMessages(resp goopenai.ChatCompletionResponse) []goopenai.ChatCompletionMessage {
	var msgs []goopenai.ChatCompletionMessage
	for _, choice := range resp.Choices {
		if len(choice.Message.ToolCalls) > 0 {
			msgs = append(msgs, choice.Message)
		}
	}
	return msgs
}
