package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIDRequired means the caller passed an empty document id.
	ErrIDRequired = errors.New("id is required")
	// ErrNotFound means the referenced document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrConflictRetriesExhausted means the bounded retry on concurrent
	// modification ran out; the caller may retry the whole command.
	ErrConflictRetriesExhausted = errors.New("concurrent modification, retries exhausted")
)

// ValidationError reports a missing or malformed input field. It is
// distinct from a policy violation: the action may be perfectly legal,
// the payload is not.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func requireField(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	return nil
}
