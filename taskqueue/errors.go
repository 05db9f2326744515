package taskqueue

import (
	"errors"
	"fmt"
)

// ErrNilConn is returned by the NATS helpers when no connection is given.
var ErrNilConn = errors.New("nil NATS connection")

// PanicError reports a panic recovered from an AsyncQueue action.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("action panicked: %v", e.Value)
}

// StorageError wraps failures while persisting or loading pending calls.
type StorageError struct {
	Op   string // Operation being performed
	Path string // File path if applicable
	Err  error  // Underlying error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("queue storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("queue storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func wrapStorageError(op, path string, err error) error {
	return &StorageError{Op: op, Path: path, Err: err}
}
