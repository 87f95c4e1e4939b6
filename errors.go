package vectordb

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrDimensionMismatch is matched by every DimensionMismatchError
	ErrDimensionMismatch = errors.New("invalid vector dimension")

	// ErrStoreClosed is returned when trying to use a closed store
	ErrStoreClosed = errors.New("store is closed")

	// ErrEmptyID is returned when a record id is empty
	ErrEmptyID = errors.New("record id cannot be empty")

	// ErrInvalidK is returned when search is asked for a negative number of results
	ErrInvalidK = errors.New("k must be non-negative")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")
)

// StorageError wraps a failure reported by the SQLite engine.
// The engine's own message is preserved.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("vectordb: %s: storage: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IOError wraps a filesystem level failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("vectordb: %s: io %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// SerializationError is returned when a vector cannot be encoded to or
// decoded from its stored bytes.
type SerializationError struct {
	Op  string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("vectordb: %s: serialization: %v", e.Op, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// DimensionMismatchError is returned by Insert once the store dimension
// is fixed and an incoming vector has a different length.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vectordb: insert: %v: expected %d, got %d", ErrDimensionMismatch, e.Expected, e.Got)
}

// Is makes errors.Is(err, ErrDimensionMismatch) hold.
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// OpError wraps validation and lifecycle errors with operation context
type OpError struct {
	Op  string // Operation name
	Err error  // Underlying error
}

// Error implements the error interface
func (e *OpError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("vectordb: %v", e.Err)
	}
	return fmt.Sprintf("vectordb: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *OpError) Unwrap() error {
	return e.Err
}

// wrapError wraps an error with operation context
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func serializationError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &SerializationError{Op: op, Err: err}
}
