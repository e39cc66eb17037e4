package errors

import (
	"strings"
	"unicode"
)

// ValidateDependencyName validates a dependency name before it is used in
// subprocess invocations and filesystem globs.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, backslash)
//   - No leading dash (would be parsed as a pkg-config flag)
//   - Maximum length of 256 characters
func ValidateDependencyName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "dependency name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidName, "dependency name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "dependency name contains invalid control characters")
		}
	}

	if strings.HasPrefix(name, "-") {
		return New(ErrCodeInvalidName, "dependency name cannot start with a dash: %q", name)
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "dependency name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateVersionRequirement validates a single version requirement string
// such as ">=2.0" or "1.2.3". An empty requirement is rejected; operator
// correctness is checked by the version matcher itself.
func ValidateVersionRequirement(req string) error {
	if strings.TrimSpace(req) == "" {
		return New(ErrCodeInvalidOption, "version requirement cannot be empty")
	}
	for _, r := range req {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidOption, "version requirement contains whitespace or control characters: %q", req)
		}
	}
	return nil
}
