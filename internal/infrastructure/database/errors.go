package database

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by every operation invoked after Close.
// The handle's closed state is terminal; it is never reopened.
var ErrClosed = errors.New("database: connection is closed")

// EngineError wraps a statement execution failure reported by the
// embedded engine: malformed SQL, constraint violations, missing
// tables or columns, type mismatches. These indicate a problem with
// the statement or the data, not a transient condition.
type EngineError struct {
	// Stmt is the statement text that failed.
	Stmt string

	// Err is the underlying driver error.
	Err error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("engine: executing %q: %v", e.Stmt, e.Err)
}

// Unwrap returns the underlying driver error.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// IsEngineError reports whether err is (or wraps) an *EngineError.
func IsEngineError(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee)
}
