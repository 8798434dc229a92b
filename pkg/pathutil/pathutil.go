// Package pathutil implements the S3-style path conventions used by the
// OpenFiles backend: forward slashes only, no leading slash, no trailing
// slash unless the whole path is empty.
package pathutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath is wrapped by every validation failure.
var ErrInvalidPath = errors.New("invalid path")

// Normalize strips leading slashes, collapses repeated slashes and strips
// trailing slashes. Normalize is idempotent and Normalize("") == "".
func Normalize(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	prevSlash := true // swallow leading slashes
	for _, r := range path {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
			b.WriteByte('/')
			continue
		}
		prevSlash = false
		b.WriteRune(r)
	}
	return strings.TrimSuffix(b.String(), "/")
}

// Join combines a base path and a relative path. If either side is empty
// after normalization, the other is returned.
func Join(base, rel string) string {
	base = Normalize(base)
	rel = Normalize(rel)
	switch {
	case base == "":
		return rel
	case rel == "":
		return base
	}
	return base + "/" + rel
}

// Resolve computes the effective path for an operation. The effective base
// is the first non-empty of operationBase, scopedBase, constructorBase; an
// empty string counts as "not provided". If relative is empty the effective
// base alone is returned, normalized.
func Resolve(constructorBase, scopedBase, operationBase, relative string) string {
	base := operationBase
	if base == "" {
		base = scopedBase
	}
	if base == "" {
		base = constructorBase
	}
	if relative == "" {
		return Normalize(base)
	}
	return Join(base, relative)
}

// StripBase removes the base prefix from path if present, so callers only
// ever see paths relative to their own scope. Both arguments are normalized
// before comparison.
func StripBase(path, base string) string {
	base = Normalize(base)
	if base == "" {
		return path
	}
	p := Normalize(path)
	if p == base {
		return ""
	}
	return strings.TrimPrefix(p, base+"/")
}

// Validate rejects paths that must never reach the backend: empty or
// whitespace-only paths, path traversal sequences, control characters and
// characters that are invalid in object keys. This is a security boundary;
// invalid paths fail fast instead of being sanitized.
func Validate(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: path is empty", ErrInvalidPath)
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("%w: path traversal in %q", ErrInvalidPath, path)
	}
	for _, r := range path {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: control character in %q", ErrInvalidPath, path)
		}
		if strings.ContainsRune(`<>:"|?*`, r) {
			return fmt.Errorf("%w: illegal character %q in %q", ErrInvalidPath, r, path)
		}
	}
	return nil
}
