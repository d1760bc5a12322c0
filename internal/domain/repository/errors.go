package repository

import (
	"errors"
	"fmt"
)

// ErrTxDone is returned when a repository bound to a unit of work is used
// after that unit of work was committed or rolled back.
var ErrTxDone = errors.New("unit of work already finalized")

// ErrConflict marks a uniqueness violation (duplicate email, or a
// (provider, provider_id) pair already linked). Backends wrap it inside a
// StorageError; match with errors.Is.
var ErrConflict = errors.New("unique constraint violation")

// StorageError wraps any backend failure (connection, constraint, scan).
// "Not found" is never a StorageError; point lookups report absence with a
// nil entity and a nil error.
type StorageError struct {
	Op  string // repository operation, e.g. "user.FindByEmail"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err as a StorageError for op. It returns nil when
// err is nil so call sites can wrap unconditionally.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
