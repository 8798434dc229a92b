// Package tools exposes OpenFiles file operations as LLM function-calling
// tools for the OpenAI and Anthropic protocols. The provider variants share
// one executor, so execution logic is protocol-agnostic.
package tools

import (
	"io"
	"log/slog"

	"github.com/openfiles-ai/openfiles-go/pkg/client"
	"github.com/openfiles-ai/openfiles-go/pkg/pathutil"
	"github.com/openfiles-ai/openfiles-go/pkg/types"
)

// Option configures a Tools instance.
type Option func(*Tools)

// WithLogger sets the logger used for tool execution logs.
func WithLogger(log *slog.Logger) Option {
	return func(t *Tools) { t.log = log }
}

// WithHooks registers observer callbacks for executed tool calls.
func WithHooks(hooks types.Hooks) Option {
	return func(t *Tools) { t.hooks = hooks }
}

// WithBasePath scopes every tool call under the given base path segment.
func WithBasePath(basePath string) Option {
	return func(t *Tools) { t.basePath = basePath }
}

// Tools binds the tool catalog to a backend client. It is immutable;
// WithBasePath derives new scoped instances.
type Tools struct {
	client   client.FileOperations
	basePath string
	hooks    types.Hooks
	log      *slog.Logger
}

// New creates a Tools instance over the given backend client.
func New(c client.FileOperations, opts ...Option) *Tools {
	t := &Tools{
		client: c,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WithBasePath derives a new Tools instance whose scope is this instance's
// base path joined with segment. The receiver is unchanged.
func (t *Tools) WithBasePath(segment string) *Tools {
	clone := *t
	clone.basePath = pathutil.Join(t.basePath, segment)
	return &clone
}

// BasePath returns the scope applied to every tool call.
func (t *Tools) BasePath() string { return t.basePath }

// OpenAI returns the OpenAI function-calling view of the catalog.
func (t *Tools) OpenAI() *OpenAIProvider { return &OpenAIProvider{tools: t} }

// Anthropic returns the Anthropic tool-use view of the catalog.
func (t *Tools) Anthropic() *AnthropicProvider { return &AnthropicProvider{tools: t} }

// scopedClient returns the backend view all executions run against: the
// bound client, further scoped by this instance's base path.
func (t *Tools) scopedClient() client.FileOperations {
	if t.basePath == "" {
		return t.client
	}
	return t.client.WithBasePath(t.basePath)
}
