package common

import (
	"sort"
	"strings"
)

// ValidationError carries per-field messages for a rejected request body.
// It maps to an HTTP 400 reply whose body echoes the field map.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single offending field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = message
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation error: " + strings.Join(fields, ", ")
}
