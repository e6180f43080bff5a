package post

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound is returned when an identifier resolves to no post.
var ErrNotFound = errors.New("post not found")

// ValidationErrors maps field names to human-readable reasons. It is
// returned from save operations instead of partially persisting, and is
// meant to be surfaced to the user as inline field feedback.
type ValidationErrors map[string]string

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var sb strings.Builder
	sb.WriteString("validation failed: ")
	for i, field := range fields {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(field)
		sb.WriteString(": ")
		sb.WriteString(v[field])
	}
	return sb.String()
}

// AsValidationErrors unwraps err into ValidationErrors if it is one.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}
