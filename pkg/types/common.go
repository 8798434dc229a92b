package types

import (
	"github.com/oklog/ulid/v2"
)

// JSONSchema represents a JSON Schema definition
type JSONSchema map[string]any

// GenerateID returns a prefixed, lexicographically sortable unique ID,
// e.g. GenerateID("req") -> "req_01J...".
func GenerateID(prefix string) string {
	return prefix + "_" + ulid.Make().String()
}
