package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrMalformedDescriptor ErrorType = iota
	ErrMissingDigest
	ErrUnresolvedSnapshot
	ErrInvalidOutput
	ErrDigestMismatch
	ErrStoreAdd
	ErrSigning
	ErrFileOp
	ErrInvalidConfig
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrMalformedDescriptor:
		return "MalformedDescriptor"
	case ErrMissingDigest:
		return "MissingDigest"
	case ErrUnresolvedSnapshot:
		return "UnresolvedSnapshot"
	case ErrInvalidOutput:
		return "InvalidOutput"
	case ErrDigestMismatch:
		return "DigestMismatch"
	case ErrStoreAdd:
		return "StoreAdd"
	case ErrSigning:
		return "Signing"
	case ErrFileOp:
		return "FileOp"
	case ErrInvalidConfig:
		return "InvalidConfig"
	default:
		return "Unknown"
	}
}

// LockError represents an error raised while assembling a lock file
type LockError struct {
	Type ErrorType
	Path string
	Err  error
}

// NewError builds a LockError with a formatted message
func NewError(t ErrorType, path string, format string, args ...interface{}) *LockError {
	return &LockError{
		Type: t,
		Path: path,
		Err:  fmt.Errorf(format, args...),
	}
}

// Error implements the error interface
func (e *LockError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *LockError) Unwrap() error {
	return e.Err
}

// IsErrorType reports whether any LockError in err's chain has type t
func IsErrorType(err error, t ErrorType) bool {
	var lockErr *LockError
	if !errors.As(err, &lockErr) {
		return false
	}
	if lockErr.Type == t {
		return true
	}
	return IsErrorType(lockErr.Err, t)
}
