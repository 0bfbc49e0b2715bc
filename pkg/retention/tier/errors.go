package tier

import (
	"errors"
	"fmt"
)

// ErrNotDirectory is returned by EnsureLayout when a tier path exists but is
// not a directory.
var ErrNotDirectory = errors.New("not a directory")

// OpError records a filesystem fault during a tier operation.
type OpError struct {
	Op   string // Operation that failed ("rotate", "archive", "promote", "expire")
	Path string // File or directory involved
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause error.
func (e *OpError) Unwrap() error {
	return e.Err
}

func opErr(op, path string, err error) *OpError {
	return &OpError{Op: op, Path: path, Err: err}
}
