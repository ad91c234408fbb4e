package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the caller carries no valid credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation covers empty payloads, missing columns and malformed files.
	ErrValidation = errors.New("validation failed")

	// ErrStore is returned when a read or write against the store fails.
	ErrStore = errors.New("store failure")
)

// ValidationError carries a message safe to show to the user.
type ValidationError struct {
	Message string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StoreError wraps a backend failure with the operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
