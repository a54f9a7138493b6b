package models

import "fmt"

// ValidationError reports malformed input, naming the offending field. It is
// always surfaced to the caller, never silently corrected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NotFoundError reports a missing task or a missing entity inside a task
// aggregate.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// PermissionDeniedError reports that the actor's role is not in the action's
// role set.
type PermissionDeniedError struct {
	Role   string
	Action string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("role %q is not allowed to %s", e.Role, e.Action)
}
