// Package domain holds the error taxonomy shared by every layer.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrDuplicateAccount  = errors.New("an account with this email already exists")
	ErrNotFound          = errors.New("not found")
	ErrAuthentication    = errors.New("incorrect password")
	ErrStorageCorruption = errors.New("stored document is corrupt")
	ErrAdviceUnavailable = errors.New("advice unavailable")
)

// FieldError describes a validation failure on a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field-level validation failures.
// It unwraps to ErrValidation.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}

	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}

	return "validation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// Validator accumulates field errors; Err returns nil when nothing was added.
type Validator struct {
	errs []FieldError
}

func (v *Validator) Add(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.Add(field, message)
	}
}

func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}

	return &ValidationError{Errors: v.errs}
}
