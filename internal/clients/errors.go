package clients

import (
	"errors"
	"fmt"

	dErrors "pscfiling/pkg/domain-errors"
)

// ErrorCategory is the normalised failure taxonomy for outbound API calls.
type ErrorCategory string

const (
	// ErrorNotFound indicates the requested resource does not exist
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorTimeout indicates the API took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorUnavailable indicates the API is down or the circuit is open
	ErrorUnavailable ErrorCategory = "unavailable"

	// ErrorAuthentication indicates the passthrough token was rejected
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorBadData indicates the API returned a body we could not decode
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorInternal indicates an unexpected failure building or sending the request
	ErrorInternal ErrorCategory = "internal"
)

// ServiceError wraps a failed call to one external API.
type ServiceError struct {
	Category   ErrorCategory
	Service    string
	Message    string
	StatusCode int
	Underlying error
}

func (e *ServiceError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Service, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Service, e.Category, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Underlying
}

// NewServiceError creates a categorised client error.
func NewServiceError(category ErrorCategory, service, message string, statusCode int, underlying error) *ServiceError {
	return &ServiceError{
		Category:   category,
		Service:    service,
		Message:    message,
		StatusCode: statusCode,
		Underlying: underlying,
	}
}

// IsNotFound reports whether err is a not-found answer from an API, as opposed
// to any other failure.
func IsNotFound(err error) bool {
	return CategoryOf(err) == ErrorNotFound
}

// CategoryOf extracts the error category, defaulting to ErrorInternal.
func CategoryOf(err error) ErrorCategory {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Category
	}
	return ErrorInternal
}

// ToDomainError translates a client failure into a domain error carrying msg.
// Not-found keeps its meaning; everything else is an upstream failure.
func ToDomainError(err error, msg string) error {
	switch CategoryOf(err) {
	case ErrorNotFound:
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	case ErrorTimeout:
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	case ErrorUnavailable:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	case ErrorAuthentication:
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
