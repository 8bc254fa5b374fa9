// Package service provides business logic for the application.
package service

import (
	"errors"
	"time"
)

// Service errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPostNotFound       = errors.New("post not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("caller does not own the resource")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
)

// ValidationError is an input problem with a message safe to show callers.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}
