package utils

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrNoFileUploaded is returned when a multipart upload carries no file.
var ErrNoFileUploaded = errors.New("no file uploaded")

// ValidationError reports a request that is missing a required field or is
// otherwise malformed. It maps to a 400 response.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError wraps err (which may be nil) as a ValidationError.
func NewValidationError(message string, err error) *ValidationError {
	return &ValidationError{Message: message, Err: err}
}

// StorageError reports a store or filesystem failure. It maps to a 500
// response.
type StorageError struct {
	Op  string
	Err error

	stack []byte // where the error was created
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Stack returns the goroutine stack captured by NewStorageError.
func (e *StorageError) Stack() string { return string(e.stack) }

// NewStorageError wraps err as a StorageError for the named operation and
// records the stack of the caller.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err, stack: debug.Stack()}
}

// NotFoundError reports a missing resource such as the layout file.
// Handlers still answer 500 for it to match the editor's expectations.
type NotFoundError struct {
	Resource string
	Err      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Resource, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStorageError reports whether err wraps a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsNotFoundError reports whether err wraps a NotFoundError.
func IsNotFoundError(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
