package workflow

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("workflow: validation failed")
	ErrNotFound    = errors.New("workflow: not found")
	ErrTransientIO = errors.New("workflow: transient i/o failure")
	ErrConflict    = errors.New("workflow: already exists")

	ErrNodeNotFound    = errors.New("workflow: node not found")
	ErrEdgeNotFound    = errors.New("workflow: edge not found")
	ErrDuplicateNode   = errors.New("workflow: duplicate node id")
	ErrDuplicateEdge   = errors.New("workflow: duplicate edge id")
	ErrSelfLoop        = errors.New("workflow: edge source equals target")
	ErrEmptyID         = errors.New("workflow: empty id")
	ErrImmutableField  = errors.New("workflow: field is immutable")
	ErrUnknownField    = errors.New("workflow: unknown field")
	ErrFieldKind       = errors.New("workflow: field not valid for node kind")
	ErrInvalidPosition = errors.New("workflow: position is not finite")
	ErrInvalidDocument = errors.New("workflow: invalid document")
)

// ValidationError reports a rejected mutation. The graph it was applied to
// is unchanged.
type ValidationError struct {
	Op    string
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("workflow: %s %s: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("workflow: %s: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(op, field string, err error) error {
	return &ValidationError{Op: op, Field: field, Err: err}
}

// NotFoundError reports a workflow id absent from the loaded collection or
// the backing store.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("workflow: workflow %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError reports a create whose id is already taken. The stored
// workflow is left as it was.
type ConflictError struct {
	ID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("workflow: workflow %q already exists", e.ID)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// TransientIOError wraps a failed call to the persistence collaborator.
// It is never retried by this package.
type TransientIOError struct {
	Op  string
	Err error
}

func (e *TransientIOError) Error() string {
	return fmt.Sprintf("workflow: %s: %v", e.Op, e.Err)
}

func (e *TransientIOError) Unwrap() error { return e.Err }

func (e *TransientIOError) Is(target error) bool { return target == ErrTransientIO }
