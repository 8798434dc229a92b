package client

import (
	"context"

	"github.com/openfiles-ai/openfiles-go/pkg/types"
)

// WriteOptions configures WriteFile. BasePath overrides the client's base
// path for this single call.
type WriteOptions struct {
	ContentType string
	IsBase64    bool
	BasePath    string
}

// ReadOptions configures ReadFile. Version 0 means latest.
type ReadOptions struct {
	Version  int
	BasePath string
}

// EditOptions configures EditFile.
type EditOptions struct {
	BasePath string
}

// AppendOptions configures AppendFile.
type AppendOptions struct {
	BasePath string
}

// OverwriteOptions configures OverwriteFile.
type OverwriteOptions struct {
	IsBase64 bool
	BasePath string
}

// ListOptions configures ListFiles. Recursive defaults to true when nil.
type ListOptions struct {
	Directory string
	Recursive *bool
	Limit     int
	Offset    int
	BasePath  string
}

// MetadataOptions configures GetMetadata. Version 0 means latest.
type MetadataOptions struct {
	Version  int
	BasePath string
}

// VersionsOptions configures GetVersions.
type VersionsOptions struct {
	Limit    int
	Offset   int
	BasePath string
}

// FileOperations is the backend contract consumed by the tool layer. The
// backend provides atomic single-file operations; this layer never retries
// a failed call.
type FileOperations interface {
	// WriteFile creates a new file. It fails if the path already exists.
	WriteFile(ctx context.Context, path, content string, opts *WriteOptions) (*types.FileMetadata, error)
	// ReadFile returns raw file content, latest version unless requested.
	ReadFile(ctx context.Context, path string, opts *ReadOptions) (string, error)
	// EditFile replaces an exact string match within the file.
	EditFile(ctx context.Context, path, oldString, newString string, opts *EditOptions) (*types.FileMetadata, error)
	// AppendFile adds content to the end of an existing file.
	AppendFile(ctx context.Context, path, content string, opts *AppendOptions) (*types.FileMetadata, error)
	// OverwriteFile replaces the entire content of an existing file.
	OverwriteFile(ctx context.Context, path, content string, opts *OverwriteOptions) (*types.FileMetadata, error)
	// ListFiles browses a directory.
	ListFiles(ctx context.Context, opts *ListOptions) (*types.FileList, error)
	// GetMetadata returns file metadata without content.
	GetMetadata(ctx context.Context, path string, opts *MetadataOptions) (*types.FileMetadata, error)
	// GetVersions returns paginated version history.
	GetVersions(ctx context.Context, path string, opts *VersionsOptions) (*types.VersionList, error)

	// WithBasePath derives a scoped view whose base path is the parent's
	// effective base path joined with segment. The parent is not mutated.
	WithBasePath(segment string) FileOperations
	// BasePath returns the view's effective base path.
	BasePath() string
}
