// Package validation holds small helpers for optional request fields.
package validation

import "strings"

func StringPtr(s string) *string {
	return &s
}

// StringPtrValue dereferences s, treating nil as empty.
func StringPtrValue(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}

// StringPtrIfNotEmpty returns a pointer to s, or nil when s is empty.
func StringPtrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// TrimmedPtr trims s and drops it when nothing is left.
func TrimmedPtr(s *string) *string {
	return StringPtrIfNotEmpty(strings.TrimSpace(StringPtrValue(s)))
}
