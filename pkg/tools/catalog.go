package tools

import (
	"github.com/openfiles-ai/openfiles-go/pkg/types"
)

// Operation names. The catalog namespace is exactly this closed set; the
// basePath concept never appears in any schema.
const (
	OpWriteFile       = "write_file"
	OpReadFile        = "read_file"
	OpEditFile        = "edit_file"
	OpListFiles       = "list_files"
	OpAppendToFile    = "append_to_file"
	OpOverwriteFile   = "overwrite_file"
	OpGetFileMetadata = "get_file_metadata"
	OpGetFileVersions = "get_file_versions"
)

// Definition is a protocol-neutral tool definition. Providers render it
// into their own envelope without changing parameter substance.
type Definition struct {
	Name        string
	Description string
	Parameters  types.JSONSchema
}

func pathProperty(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

// catalog lists the 8 supported operations in their canonical order. The
// descriptions carry the selection semantics the model needs to pick the
// right operation.
var catalog = []Definition{
	{
		Name: OpWriteFile,
		Description: "Create a new file with the given content. Fails if the file " +
			"already exists; use overwrite_file to replace an existing file.",
		Parameters: types.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"path":    pathProperty("Relative path of the file to create, e.g. reports/summary.md"),
				"content": map[string]any{"type": "string", "description": "The full content to write"},
				"contentType": map[string]any{
					"type":        "string",
					"description": "MIME type of the content, e.g. text/plain or application/json",
				},
				"isBase64": map[string]any{
					"type":        "boolean",
					"description": "Set true when content is base64-encoded binary data",
				},
			},
			"required":             []string{"path", "content"},
			"additionalProperties": false,
		},
	},
	{
		Name: OpReadFile,
		Description: "Read the contents of a file. Returns the latest version unless " +
			"a specific version is requested.",
		Parameters: types.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"path": pathProperty("Relative path of the file to read"),
				"version": map[string]any{
					"type":        "integer",
					"description": "Specific version to read; 0 or omitted means latest",
				},
			},
			"required":             []string{"path"},
			"additionalProperties": false,
		},
	},
	{
		Name: OpEditFile,
		Description: "Edit a file by replacing an exact string match with a new " +
			"string. The old string must appear verbatim in the file.",
		Parameters: types.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"path":      pathProperty("Relative path of the file to edit"),
				"oldString": map[string]any{"type": "string", "description": "Exact text to find"},
				"newString": map[string]any{"type": "string", "description": "Replacement text"},
			},
			"required":             []string{"path", "oldString", "newString"},
			"additionalProperties": false,
		},
	},
	{
		Name: OpListFiles,
		Description: "List files in a directory. Recursive by default; use this to " +
			"discover what files exist before reading or editing them.",
		Parameters: types.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"directory": pathProperty("Directory to list; empty string means the root"),
				"recursive": map[string]any{
					"type":        "boolean",
					"description": "Include files in subdirectories (default true)",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of files to return",
				},
				"offset": map[string]any{
					"type":        "integer",
					"description": "Number of files to skip, for pagination",
				},
			},
			"required":             []string{},
			"additionalProperties": false,
		},
	},
	{
		Name:        OpAppendToFile,
		Description: "Append content to the end of an existing file without changing what is already there.",
		Parameters: types.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"path":    pathProperty("Relative path of the file to append to"),
				"content": map[string]any{"type": "string", "description": "Content to add at the end"},
			},
			"required":             []string{"path", "content"},
			"additionalProperties": false,
		},
	},
	{
		Name: OpOverwriteFile,
		Description: "Replace the entire content of an existing file. Use write_file " +
			"to create a new file instead.",
		Parameters: types.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"path":    pathProperty("Relative path of the file to overwrite"),
				"content": map[string]any{"type": "string", "description": "The replacement content"},
				"isBase64": map[string]any{
					"type":        "boolean",
					"description": "Set true when content is base64-encoded binary data",
				},
			},
			"required":             []string{"path", "content"},
			"additionalProperties": false,
		},
	},
	{
		Name:        OpGetFileMetadata,
		Description: "Get file metadata (size, version, content type, timestamps) without reading the content.",
		Parameters: types.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"path": pathProperty("Relative path of the file"),
				"version": map[string]any{
					"type":        "integer",
					"description": "Specific version; 0 or omitted means latest",
				},
			},
			"required":             []string{"path"},
			"additionalProperties": false,
		},
	},
	{
		Name:        OpGetFileVersions,
		Description: "Get the version history of a file, newest first, with pagination.",
		Parameters: types.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"path": pathProperty("Relative path of the file"),
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of versions to return",
				},
				"offset": map[string]any{
					"type":        "integer",
					"description": "Number of versions to skip, for pagination",
				},
			},
			"required":             []string{"path"},
			"additionalProperties": false,
		},
	},
}

// Catalog returns the 8 tool definitions in canonical order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// IsCatalogTool reports whether name is one of the supported operations.
func IsCatalogTool(name string) bool {
	switch name {
	case OpWriteFile, OpReadFile, OpEditFile, OpListFiles,
		OpAppendToFile, OpOverwriteFile, OpGetFileMetadata, OpGetFileVersions:
		return true
	}
	return false
}
