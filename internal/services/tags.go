package services

import "strings"

// CleanTags trims the free-text tag list. The text is otherwise kept as
// supplied so that searching for any part of it finds the entry again.
// Blank input yields nil.
func CleanTags(raw *string) *string {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	return &value
}

// CleanSearchTerm prepares a tag filter for substring matching against
// stored tags.
func CleanSearchTerm(value string) string {
	return strings.TrimSpace(value)
}
