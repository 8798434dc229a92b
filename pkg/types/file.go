package types

import "time"

// Common content types accepted by the backend.
const (
	ContentTypeText     = "text/plain"
	ContentTypeMarkdown = "text/markdown"
	ContentTypeHTML     = "text/html"
	ContentTypeCSV      = "text/csv"
	ContentTypeJSON     = "application/json"
	ContentTypeYAML     = "application/yaml"
	ContentTypePNG      = "image/png"
	ContentTypeJPEG     = "image/jpeg"
	ContentTypeBinary   = "application/octet-stream"
)

// FileMetadata describes a stored file at a specific version.
// The backend owns this shape; the SDK consumes it read-only.
type FileMetadata struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Version     int       `json:"version"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FileList is a page of directory listing results.
type FileList struct {
	Files  []FileMetadata `json:"files"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// FileVersion is one entry in a file's version history.
type FileVersion struct {
	Version     int       `json:"version"`
	SizeBytes   int64     `json:"sizeBytes"`
	ContentType string    `json:"contentType,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// VersionList is a page of version history for a single file.
type VersionList struct {
	File     *FileMetadata `json:"file,omitempty"`
	Versions []FileVersion `json:"versions"`
	Total    int           `json:"total"`
	Limit    int           `json:"limit"`
	Offset   int           `json:"offset"`
}
