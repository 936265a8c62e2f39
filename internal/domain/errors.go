package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("invalid request")
	// ErrUserNotFound is returned when a well-formed userId does not resolve to a user.
	ErrUserNotFound = errors.New("user not found")
	// ErrStorage wraps failures reported by the persistence layer.
	ErrStorage = errors.New("storage failure")
)

// ValidationError names the offending field. Its message stays generic for callers.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports an identifier that resolved to no user.
type NotFoundError struct {
	UserID string
}

func (e *NotFoundError) Error() string {
	return "could not find userId " + e.UserID
}

// Unwrap allows errors.Is(err, ErrUserNotFound).
func (e *NotFoundError) Unwrap() error { return ErrUserNotFound }

// StorageError wraps a repository failure with the operation that produced it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both ErrStorage and the driver error.
func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
