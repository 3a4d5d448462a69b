package models

import (
	"errors"

	dErrors "pscfiling/pkg/domain-errors"
)

// ErrUnknownPscType is returned when a stored document or path names a PSC
// type this service does not handle.
var ErrUnknownPscType = errors.New("unknown psc type")

// FieldError is one accumulated validation failure. Field is the json name of
// the offending field; it renders as the json-path location $.<field>.
type FieldError struct {
	Field         string `json:"field"`
	RejectedValue any    `json:"rejected_value,omitempty"`
	Message       string `json:"message"`
}

// NewFieldError builds a FieldError.
func NewFieldError(field string, rejected any, message string) FieldError {
	return FieldError{Field: field, RejectedValue: rejected, Message: message}
}

// Violations converts field errors to domain violations, preserving order.
func Violations(errs []FieldError) []dErrors.Violation {
	out := make([]dErrors.Violation, len(errs))
	for i, e := range errs {
		out[i] = dErrors.Violation{Field: e.Field, Message: e.Message}
	}
	return out
}
