package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "pscfiling/pkg/domain-errors"
)

// Location metadata attached to every rendered field violation.
const (
	LocationTypeJSONPath = "json-path"
	ErrorTypeValidation  = "ch:validation"
)

// ErrorItem is the wire shape of a single field-located error.
type ErrorItem struct {
	Error        string `json:"error"`
	Location     string `json:"location"`
	LocationType string `json:"location_type"`
	Type         string `json:"type"`
}

// ErrorList is returned whenever an error carries field violations.
type ErrorList struct {
	Errors []ErrorItem `json:"errors"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// Errors carrying violations are rendered as a json-path located error list;
// everything else becomes {"error", "error_description"}.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		status := DomainCodeToHTTPStatus(domainErr.Code)
		if len(domainErr.Violations) > 0 {
			WriteJSON(w, status, ToErrorList(domainErr.Violations))
			return
		}
		response := map[string]string{
			"error": DomainCodeToHTTPCode(domainErr.Code),
		}
		if domainErr.Message != "" {
			response["error_description"] = domainErr.Message
		}
		WriteJSON(w, status, response)
		return
	}

	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": DomainCodeToHTTPCode(dErrors.CodeInternal),
	})
}

// ToErrorList renders violations in the order they were recorded.
func ToErrorList(violations []dErrors.Violation) ErrorList {
	items := make([]ErrorItem, 0, len(violations))
	for _, v := range violations {
		items = append(items, ErrorItem{
			Error:        v.Message,
			Location:     JSONPath(v.Field),
			LocationType: LocationTypeJSONPath,
			Type:         ErrorTypeValidation,
		})
	}
	return ErrorList{Errors: items}
}

// JSONPath renders a field name as a root-relative json path.
func JSONPath(field string) string {
	if field == "" {
		return "$"
	}
	return "$." + field
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to HTTP error codes (for JSON response).
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return "bad_request"
	case dErrors.CodeValidation, dErrors.CodeInvariantViolation:
		return "validation_error"
	case dErrors.CodeConflict:
		return "conflict"
	case dErrors.CodeUnauthorized:
		return "unauthorized"
	case dErrors.CodeForbidden:
		return "forbidden"
	case dErrors.CodeTimeout:
		return "upstream_timeout"
	case dErrors.CodeUnavailable:
		return "upstream_unavailable"
	default:
		return "internal_error"
	}
}
