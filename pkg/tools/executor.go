package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openfiles-ai/openfiles-go/pkg/client"
	"github.com/openfiles-ai/openfiles-go/pkg/pathutil"
	"github.com/openfiles-ai/openfiles-go/pkg/types"
)

// UnknownToolError reports a tool name inside the catalog namespace that
// does not match any supported operation. It is fatal for the single call,
// never for the turn.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string { return "unknown tool: " + e.Name }

// Argument shapes, one per operation. Field names follow the schema wire
// format exactly.
type writeArgs struct {
	Path        string `json:"path"`
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
	IsBase64    bool   `json:"isBase64"`
}

type readArgs struct {
	Path    string `json:"path"`
	Version int    `json:"version"`
}

type editArgs struct {
	Path      string `json:"path"`
	OldString string `json:"oldString"`
	NewString string `json:"newString"`
}

type listArgs struct {
	Directory string `json:"directory"`
	Recursive *bool  `json:"recursive"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

type appendArgs struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type overwriteArgs struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	IsBase64 bool   `json:"isBase64"`
}

type metadataArgs struct {
	Path    string `json:"path"`
	Version int    `json:"version"`
}

type versionsArgs struct {
	Path   string `json:"path"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// readResult echoes the requested path and version alongside raw content,
// because the backend read call returns content only.
type readResult struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Version int    `json:"version"`
}

// execute runs one operation against the scoped backend client and returns
// the result with base-path prefixes stripped.
func (t *Tools) execute(ctx context.Context, name, argsJSON string) (any, error) {
	c := t.scopedClient()

	decode := func(v any) error {
		if err := json.Unmarshal([]byte(argsJSON), v); err != nil {
			return fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
		return nil
	}

	switch name {
	case OpWriteFile:
		var args writeArgs
		if err := decode(&args); err != nil {
			return nil, err
		}
		meta, err := c.WriteFile(ctx, args.Path, args.Content, &client.WriteOptions{
			ContentType: args.ContentType,
			IsBase64:    args.IsBase64,
		})
		if err != nil {
			return nil, err
		}
		return t.stripped(meta, c), nil

	case OpReadFile:
		var args readArgs
		if err := decode(&args); err != nil {
			return nil, err
		}
		opts := &client.ReadOptions{}
		if args.Version > 0 { // 0 means latest
			opts.Version = args.Version
		}
		content, err := c.ReadFile(ctx, args.Path, opts)
		if err != nil {
			return nil, err
		}
		// Raw content is never stripped; the requested path is already
		// scope-relative.
		return &readResult{Path: args.Path, Content: content, Version: args.Version}, nil

	case OpEditFile:
		var args editArgs
		if err := decode(&args); err != nil {
			return nil, err
		}
		meta, err := c.EditFile(ctx, args.Path, args.OldString, args.NewString, nil)
		if err != nil {
			return nil, err
		}
		return t.stripped(meta, c), nil

	case OpListFiles:
		var args listArgs
		if err := decode(&args); err != nil {
			return nil, err
		}
		list, err := c.ListFiles(ctx, &client.ListOptions{
			Directory: args.Directory,
			Recursive: args.Recursive,
			Limit:     args.Limit,
			Offset:    args.Offset,
		})
		if err != nil {
			return nil, err
		}
		return t.stripped(list, c), nil

	case OpAppendToFile:
		var args appendArgs
		if err := decode(&args); err != nil {
			return nil, err
		}
		meta, err := c.AppendFile(ctx, args.Path, args.Content, nil)
		if err != nil {
			return nil, err
		}
		return t.stripped(meta, c), nil

	case OpOverwriteFile:
		var args overwriteArgs
		if err := decode(&args); err != nil {
			return nil, err
		}
		meta, err := c.OverwriteFile(ctx, args.Path, args.Content, &client.OverwriteOptions{
			IsBase64: args.IsBase64,
		})
		if err != nil {
			return nil, err
		}
		return t.stripped(meta, c), nil

	case OpGetFileMetadata:
		var args metadataArgs
		if err := decode(&args); err != nil {
			return nil, err
		}
		opts := &client.MetadataOptions{}
		if args.Version > 0 {
			opts.Version = args.Version
		}
		meta, err := c.GetMetadata(ctx, args.Path, opts)
		if err != nil {
			return nil, err
		}
		return t.stripped(meta, c), nil

	case OpGetFileVersions:
		var args versionsArgs
		if err := decode(&args); err != nil {
			return nil, err
		}
		versions, err := c.GetVersions(ctx, args.Path, &client.VersionsOptions{
			Limit:  args.Limit,
			Offset: args.Offset,
		})
		if err != nil {
			return nil, err
		}
		return t.stripped(versions, c), nil
	}

	return nil, &UnknownToolError{Name: name}
}

// stripped removes the active base-path prefix from every path embedded in
// a backend result, so the model only sees paths relative to its scope.
func (t *Tools) stripped(result any, c client.FileOperations) any {
	base := c.BasePath()
	if base == "" {
		return result
	}
	switch v := result.(type) {
	case *types.FileMetadata:
		meta := *v
		meta.Path = pathutil.StripBase(meta.Path, base)
		return &meta
	case *types.FileList:
		list := *v
		list.Files = make([]types.FileMetadata, len(v.Files))
		for i, f := range v.Files {
			f.Path = pathutil.StripBase(f.Path, base)
			list.Files[i] = f
		}
		return &list
	case *types.VersionList:
		vl := *v
		if v.File != nil {
			file := *v.File
			file.Path = pathutil.StripBase(file.Path, base)
			vl.File = &file
		}
		return &vl
	}
	return result
}

// processCall executes one tool call, captures any failure into an error
// result, and fires the observer hooks. Errors never escape a single call.
func (t *Tools) processCall(ctx context.Context, call types.ToolCall) types.ToolResult {
	var args map[string]any
	_ = json.Unmarshal([]byte(call.Arguments), &args)

	start := time.Now()
	data, err := t.execute(ctx, call.Name, call.Arguments)
	duration := time.Since(start)

	result := types.ToolResult{
		ToolCallID: call.ID,
		Function:   call.Name,
		Args:       args,
	}
	if err != nil {
		result.Status = types.ToolStatusError
		result.Error = err.Error()
		t.log.Warn("tool execution failed", "tool", call.Name, "id", call.ID, "error", err)
	} else {
		result.Status = types.ToolStatusSuccess
		result.Data = data
		t.log.Debug("tool executed", "tool", call.Name, "id", call.ID, "duration", duration)
	}

	t.observe(call, result, duration, err)
	return result
}

func (t *Tools) observe(call types.ToolCall, result types.ToolResult, duration time.Duration, err error) {
	op := types.FileOperation{
		Action:  call.Name,
		Success: err == nil,
		Error:   result.Error,
		Data:    result.Data,
	}
	if p, ok := result.Args["path"].(string); ok {
		op.Path = p
	} else if d, ok := result.Args["directory"].(string); ok {
		op.Path = d
	}
	if meta, ok := result.Data.(*types.FileMetadata); ok {
		op.Version = meta.Version
	}
	t.hooks.FireFileOperation(op)

	t.hooks.FireToolExecution(types.ToolExecution{
		ToolCallID: call.ID,
		Function:   call.Name,
		Success:    err == nil,
		Result:     result.Data,
		Error:      result.Error,
		Duration:   duration,
	})

	if err != nil {
		t.hooks.FireError(err)
	}
}

// resultPayload is the JSON document sent back to the model for one call.
type resultPayload struct {
	Success   bool                `json:"success"`
	Data      any                 `json:"data,omitempty"`
	Error     *resultPayloadError `json:"error,omitempty"`
	Operation string              `json:"operation"`
}

type resultPayloadError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// encodeResult renders a ToolResult as the model-facing JSON string.
func encodeResult(r types.ToolResult) string {
	payload := resultPayload{Operation: r.Function}
	if r.Status == types.ToolStatusSuccess {
		payload.Success = true
		payload.Data = r.Data
	} else {
		payload.Error = &resultPayloadError{Code: "EXECUTION_ERROR", Message: r.Error}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		// Data that cannot marshal degrades to an error payload.
		b, _ = json.Marshal(resultPayload{
			Operation: r.Function,
			Error:     &resultPayloadError{Code: "EXECUTION_ERROR", Message: err.Error()},
		})
	}
	return string(b)
}
