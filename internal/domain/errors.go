package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across repositories and services.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSlugGeneration is returned when a slug derived from a title is empty.
	ErrSlugGeneration = errors.New("slug could not be generated from title")
	// ErrDuplicateSlug is returned when an event's slug is already in use.
	ErrDuplicateSlug = errors.New("slug already in use")
	// ErrInvalidDate is returned when a date string cannot be parsed.
	ErrInvalidDate = errors.New("date must be a valid date string")
	// ErrInvalidTimeFormat is returned when a time string is neither 24-hour
	// HH:mm nor 12-hour h:mm AM/PM.
	ErrInvalidTimeFormat = errors.New("time must be in HH:mm or h:mm AM/PM format")
	// ErrInvalidEmail is returned when an email fails the shape check.
	ErrInvalidEmail = errors.New("email must be a valid email address")
	// ErrEventNotFound is returned when a booking references an event that
	// does not exist.
	ErrEventNotFound = errors.New("eventId does not reference an existing event")
)

// FieldError reports a required-field violation scoped to a single field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// NewRequiredFieldError reports a missing or empty string field.
func NewRequiredFieldError(field string) *FieldError {
	return &FieldError{Field: field, Message: "is required"}
}

// NewEmptyArrayError reports a missing or empty array field.
func NewEmptyArrayError(field string) *FieldError {
	return &FieldError{Field: field, Message: "must be a non-empty array"}
}

// NewEmptyElementError reports an array field containing an empty element.
func NewEmptyElementError(field string) *FieldError {
	return &FieldError{Field: field, Message: "must contain non-empty strings"}
}

// IsFieldError reports whether err is a FieldError and, if so, returns it.
func IsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
