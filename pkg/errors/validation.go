package errors

import (
	"maps"
	"slices"
	"strings"
	"unicode"
)

const (
	maxNameLen = 256
	maxPathLen = 500
)

// ValidateName checks a dataset, variable or dimension name before it is
// placed in a DOT identifier or an HTML-like label. kind names the thing in
// the message ("dataset", "dimension"). Failures are INVALID_INPUT.
func ValidateName(kind, name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidInput, "%s name cannot be empty", kind)
	case len(name) > maxNameLen:
		return New(ErrCodeInvalidInput, "%s name too long (max %d bytes)", kind, maxNameLen)
	case hasControl(name):
		return New(ErrCodeInvalidInput, "%s name %q contains control characters", kind, name)
	}
	return nil
}

// ValidatePath checks a document or output path given on the command line.
// Failures are INVALID_PATH.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLen:
		return New(ErrCodeInvalidPath, "path too long (max %d bytes)", maxPathLen)
	case hasControl(path):
		return New(ErrCodeInvalidPath, "path contains control characters")
	}
	return nil
}

func hasControl(s string) bool {
	return strings.ContainsFunc(s, unicode.IsControl)
}

// ValidateFormats requires at least one format and every format to be in
// allowed. The error lists the allowed formats in sorted order.
func ValidateFormats(formats []string, allowed map[string]bool) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "at least one format is required")
	}
	for _, f := range formats {
		if !allowed[f] {
			return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", f, strings.Join(slices.Sorted(maps.Keys(allowed)), ", "))
		}
	}
	return nil
}
