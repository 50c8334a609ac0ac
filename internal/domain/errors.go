// Package domain contains the blog catalog model and its business errors.
// The errors carry no transport meaning; the HTTP and CLI adapters decide
// how each kind is reported.
package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every typed error below unwraps to exactly one of these.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError is a lookup miss, such as an unknown slug or a slug whose
// fragment file does not exist.
type NotFoundError struct {
	Entity string
	Key    string
}

func NewNotFoundError(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError is catalog data that contradicts itself. Value holds the
// offending datum, such as the slug used twice.
type ConflictError struct {
	Entity string
	Reason string
	Value  string
}

func NewConflictError(entity, reason, value string) error {
	return &ConflictError{Entity: entity, Reason: reason, Value: value}
}

func (e *ConflictError) Error() string {
	msg := e.Entity + " conflict: " + e.Reason
	if e.Value != "" {
		msg += " (" + e.Value + ")"
	}

	return msg
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// ValidationError rejects one field of a query or catalog record.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue also records the rejected input.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// UnavailableError is a content source that cannot be read right now. It
// unwraps to both ErrUnavailable and the underlying cause.
type UnavailableError struct {
	Source string
	Cause  error
}

func NewUnavailableError(source string, cause error) error {
	return &UnavailableError{Source: source, Cause: cause}
}

func (e *UnavailableError) Error() string {
	if e.Cause == nil {
		return e.Source + " unavailable"
	}

	return fmt.Sprintf("%s unavailable: %v", e.Source, e.Cause)
}

func (e *UnavailableError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrUnavailable}
	}

	return []error{ErrUnavailable, e.Cause}
}

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool    { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
