// Package client provides the OpenFiles backend client: atomic file
// operations over HTTP with transparent base-path scoping.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/openfiles-ai/openfiles-go/pkg/pathutil"
	"github.com/openfiles-ai/openfiles-go/pkg/types"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.openfiles.ai/functions/v1/api"
	// DefaultTimeout applies when no timeout is configured. Timeouts and
	// cancellation beyond this are the transport's concern.
	DefaultTimeout = 30 * time.Second

	apiKeyPrefix = "oa_"
	apiKeyMinLen = 32
)

// Options configures a Client. The zero value is usable.
type Options struct {
	// BaseURL overrides DefaultBaseURL, e.g. for a local dev server.
	BaseURL string
	// BasePath is prepended to every relative path used with this client.
	BasePath string
	// Timeout is the per-request timeout. Zero means DefaultTimeout.
	Timeout time.Duration
	// Logger receives debug-level request logs. Nil disables logging.
	Logger *slog.Logger
	// HTTPClient optionally supplies the underlying http.Client.
	HTTPClient *http.Client
}

// Client talks to the OpenFiles backend. It is immutable: WithBasePath
// derives a new scoped view and never mutates the receiver.
type Client struct {
	apiKey   string
	basePath string
	http     *resty.Client
	log      *slog.Logger
}

var _ FileOperations = (*Client)(nil)

// New validates the API key and constructs a Client.
func New(apiKey string, opts *Options) (*Client, error) {
	if !strings.HasPrefix(apiKey, apiKeyPrefix) || len(apiKey) < apiKeyMinLen {
		return nil, &APIKeyError{Message: "expected an oa_-prefixed key"}
	}
	if opts == nil {
		opts = &Options{}
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-API-Key", apiKey)

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:   apiKey,
		basePath: pathutil.Normalize(opts.BasePath),
		http:     rc,
		log:      log,
	}, nil
}

// WithBasePath derives a scoped view. The new view's base path is this
// view's base path joined with segment.
func (c *Client) WithBasePath(segment string) FileOperations {
	clone := *c
	clone.basePath = pathutil.Join(c.basePath, segment)
	return &clone
}

// BasePath returns the client's effective base path.
func (c *Client) BasePath() string { return c.basePath }

// resolvePath applies base-path priority and validates the result before it
// is allowed anywhere near the wire.
func (c *Client) resolvePath(path, operationBase string) (string, error) {
	resolved := pathutil.Resolve(c.basePath, "", operationBase, path)
	if err := pathutil.Validate(resolved); err != nil {
		return "", &ValidationError{Message: err.Error()}
	}
	return resolved, nil
}

// Wire envelope shared by all backend responses.
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Operation string          `json:"operation,omitempty"`
	Message   string          `json:"message,omitempty"`
	Error     *errorBody      `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type writeRequest struct {
	Path        string `json:"path"`
	Content     string `json:"content"`
	ContentType string `json:"contentType,omitempty"`
	IsBase64    bool   `json:"isBase64,omitempty"`
}

type editRequest struct {
	OldString string `json:"oldString"`
	NewString string `json:"newString"`
}

type appendRequest struct {
	Content string `json:"content"`
}

type overwriteRequest struct {
	Content  string `json:"content"`
	IsBase64 bool   `json:"isBase64"`
}

type readData struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Version int    `json:"version"`
}

func (c *Client) WriteFile(ctx context.Context, path, content string, opts *WriteOptions) (*types.FileMetadata, error) {
	if opts == nil {
		opts = &WriteOptions{}
	}
	p, err := c.resolvePath(path, opts.BasePath)
	if err != nil {
		return nil, err
	}
	body := writeRequest{Path: p, Content: content, ContentType: opts.ContentType, IsBase64: opts.IsBase64}
	env, err := c.do(ctx, http.MethodPost, "/files", body, nil, "write_file", p)
	if err != nil {
		return nil, err
	}
	return decodeMetadata(env, "write_file")
}

func (c *Client) ReadFile(ctx context.Context, path string, opts *ReadOptions) (string, error) {
	if opts == nil {
		opts = &ReadOptions{}
	}
	p, err := c.resolvePath(path, opts.BasePath)
	if err != nil {
		return "", err
	}
	query := map[string]string{}
	if opts.Version > 0 {
		query["version"] = strconv.Itoa(opts.Version)
	}
	env, err := c.do(ctx, http.MethodGet, "/files/"+p, nil, query, "read_file", p)
	if err != nil {
		return "", err
	}
	var data readData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", &APIError{Operation: "read_file", Message: fmt.Sprintf("malformed response: %v", err)}
	}
	return data.Content, nil
}

func (c *Client) EditFile(ctx context.Context, path, oldString, newString string, opts *EditOptions) (*types.FileMetadata, error) {
	if opts == nil {
		opts = &EditOptions{}
	}
	p, err := c.resolvePath(path, opts.BasePath)
	if err != nil {
		return nil, err
	}
	body := editRequest{OldString: oldString, NewString: newString}
	env, err := c.do(ctx, http.MethodPut, "/files/edit/"+p, body, nil, "edit_file", p)
	if err != nil {
		return nil, err
	}
	return decodeMetadata(env, "edit_file")
}

func (c *Client) AppendFile(ctx context.Context, path, content string, opts *AppendOptions) (*types.FileMetadata, error) {
	if opts == nil {
		opts = &AppendOptions{}
	}
	p, err := c.resolvePath(path, opts.BasePath)
	if err != nil {
		return nil, err
	}
	env, err := c.do(ctx, http.MethodPut, "/files/append/"+p, appendRequest{Content: content}, nil, "append_to_file", p)
	if err != nil {
		return nil, err
	}
	return decodeMetadata(env, "append_to_file")
}

func (c *Client) OverwriteFile(ctx context.Context, path, content string, opts *OverwriteOptions) (*types.FileMetadata, error) {
	if opts == nil {
		opts = &OverwriteOptions{}
	}
	p, err := c.resolvePath(path, opts.BasePath)
	if err != nil {
		return nil, err
	}
	body := overwriteRequest{Content: content, IsBase64: opts.IsBase64}
	env, err := c.do(ctx, http.MethodPut, "/files/overwrite/"+p, body, nil, "overwrite_file", p)
	if err != nil {
		return nil, err
	}
	return decodeMetadata(env, "overwrite_file")
}

func (c *Client) ListFiles(ctx context.Context, opts *ListOptions) (*types.FileList, error) {
	if opts == nil {
		opts = &ListOptions{}
	}
	// The directory is scoped like any other path, but an empty resolved
	// directory is valid: it means the root of the current scope.
	dir := pathutil.Resolve(c.basePath, "", opts.BasePath, opts.Directory)
	if dir != "" {
		if err := pathutil.Validate(dir); err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
	}
	query := map[string]string{"directory": dir}
	if opts.Recursive != nil {
		query["recursive"] = strconv.FormatBool(*opts.Recursive)
	}
	if opts.Limit > 0 {
		query["limit"] = strconv.Itoa(opts.Limit)
	}
	if opts.Offset > 0 {
		query["offset"] = strconv.Itoa(opts.Offset)
	}
	env, err := c.do(ctx, http.MethodGet, "/files", nil, query, "list_files", dir)
	if err != nil {
		return nil, err
	}
	var list types.FileList
	if err := json.Unmarshal(env.Data, &list); err != nil {
		return nil, &APIError{Operation: "list_files", Message: fmt.Sprintf("malformed response: %v", err)}
	}
	return &list, nil
}

func (c *Client) GetMetadata(ctx context.Context, path string, opts *MetadataOptions) (*types.FileMetadata, error) {
	if opts == nil {
		opts = &MetadataOptions{}
	}
	p, err := c.resolvePath(path, opts.BasePath)
	if err != nil {
		return nil, err
	}
	query := map[string]string{"metadata": "true"}
	if opts.Version > 0 {
		query["version"] = strconv.Itoa(opts.Version)
	}
	env, err := c.do(ctx, http.MethodGet, "/files/"+p, nil, query, "get_file_metadata", p)
	if err != nil {
		return nil, err
	}
	return decodeMetadata(env, "get_file_metadata")
}

func (c *Client) GetVersions(ctx context.Context, path string, opts *VersionsOptions) (*types.VersionList, error) {
	if opts == nil {
		opts = &VersionsOptions{}
	}
	p, err := c.resolvePath(path, opts.BasePath)
	if err != nil {
		return nil, err
	}
	query := map[string]string{"versions": "true"}
	if opts.Limit > 0 {
		query["limit"] = strconv.Itoa(opts.Limit)
	}
	if opts.Offset > 0 {
		query["offset"] = strconv.Itoa(opts.Offset)
	}
	env, err := c.do(ctx, http.MethodGet, "/files/"+p, nil, query, "get_file_versions", p)
	if err != nil {
		return nil, err
	}
	var versions types.VersionList
	if err := json.Unmarshal(env.Data, &versions); err != nil {
		return nil, &APIError{Operation: "get_file_versions", Message: fmt.Sprintf("malformed response: %v", err)}
	}
	return &versions, nil
}

func (c *Client) do(ctx context.Context, method, url string, body any, query map[string]string, op, path string) (*envelope, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	start := time.Now()
	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	c.log.Debug("backend call",
		"operation", op,
		"method", method,
		"status", resp.StatusCode(),
		"latency", time.Since(start),
	)

	if resp.IsError() {
		return nil, c.statusError(resp, op, path)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode(), Operation: op, Message: fmt.Sprintf("malformed response: %v", err)}
	}
	if !env.Success {
		msg := env.Message
		code := ""
		if env.Error != nil {
			msg = env.Error.Message
			code = env.Error.Code
		}
		return nil, &APIError{StatusCode: resp.StatusCode(), Code: code, Message: msg, Operation: op}
	}
	return &env, nil
}

// statusError maps HTTP status codes onto the error taxonomy, preserving
// the backend's message when the body carries an error envelope.
func (c *Client) statusError(resp *resty.Response, op, path string) error {
	msg := http.StatusText(resp.StatusCode())
	code := ""
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err == nil && env.Error != nil {
		msg = env.Error.Message
		code = env.Error.Code
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return &ValidationError{Message: msg}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthenticationError{StatusCode: resp.StatusCode(), Message: msg}
	case http.StatusNotFound:
		return &NotFoundError{Path: path}
	case http.StatusConflict:
		return &ConflictError{Message: msg}
	case http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header().Get("Retry-After"))
		return &RateLimitError{Message: msg, RetryAfter: retryAfter}
	}
	return &APIError{StatusCode: resp.StatusCode(), Code: code, Message: msg, Operation: op}
}

func decodeMetadata(env *envelope, op string) (*types.FileMetadata, error) {
	var meta types.FileMetadata
	if err := json.Unmarshal(env.Data, &meta); err != nil {
		return nil, &APIError{Operation: op, Message: fmt.Sprintf("malformed response: %v", err)}
	}
	return &meta, nil
}
