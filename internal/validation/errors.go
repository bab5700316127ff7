package validation

import (
	"sort"
	"strings"
)

// FieldErrors maps a field name to the first problem found with it.
type FieldErrors map[string]string

func (e FieldErrors) Add(field, message string) {
	if _, exists := e[field]; exists {
		return
	}
	e[field] = message
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Err returns nil when no field failed.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Required reports every field whose presence flag is false.
func Required(fields map[string]bool) error {
	errs := FieldErrors{}
	for field, ok := range fields {
		if !ok {
			errs.Add(field, field+" is required")
		}
	}
	return errs.Err()
}
