package store

import (
	"errors"
	"fmt"
)

// Error kinds returned by the stores. Controllers match these with errors.Is
// and map them to HTTP statuses; nothing in this package writes responses.
var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("authentication required")
	ErrAuthorization  = errors.New("not authorized")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)

// StorageError wraps a persistence failure with enough context (operation,
// target id) for reconciliation. Cascade marks a failure that happened after
// part of a multi-record operation already committed, so the caller must see
// the error even though some records changed.
type StorageError struct {
	Op      string
	Target  uint
	Cascade bool
	Err     error
}

func (e *StorageError) Error() string {
	if e.Cascade {
		return fmt.Sprintf("storage: %s (id=%d) failed after partial completion: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("storage: %s (id=%d): %v", e.Op, e.Target, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, target uint, err error) *StorageError {
	return &StorageError{Op: op, Target: target, Err: err}
}
