package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds icon names; they end up as JSON keys and URL segments.
const maxNameLength = 256

// ValidateIconName validates an icon name derived from a source file name.
// Icon names become keys of the atlas metadata and path segments of the
// preview server, so the rules are conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators (/ or \)
//   - Maximum length of 256 characters
func ValidateIconName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "icon name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "icon name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "icon name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidName, "icon name cannot contain path separators: %q", name)
	}

	return nil
}

// ValidatePath validates a user supplied file system path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
