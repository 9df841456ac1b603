package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery is returned before any store call when a request is
	// under-specified (for example, a sentence lookup with no filter at all).
	// Not retryable: the caller must fix the request.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
)

// StoreError wraps a failure surfaced by the underlying store: connectivity,
// serialization, or constraint violations. The driver error is preserved for
// errors.Is/As; retry policy is the caller's responsibility.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e == nil {
		return ""
	}
	if e.Op != "" {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %v", e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a StoreError tagged with the failing operation.
// Returns nil for a nil err so call sites can wrap unconditionally.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStore reports whether err is (or wraps) a StoreError.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
