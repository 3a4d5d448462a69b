package handler

import (
	"pscfiling/internal/filing/models"
	"pscfiling/internal/filing/service"
	"pscfiling/pkg/platform/httputil"
)

// ValidationStatusResponse is the body of the validation_status endpoint. The
// transactions API reads is_valid before closing a transaction.
type ValidationStatusResponse struct {
	IsValid bool                 `json:"is_valid"`
	Errors  []httputil.ErrorItem `json:"errors"`
}

func toValidationStatusResponse(status *service.ValidationStatus) ValidationStatusResponse {
	return ValidationStatusResponse{
		IsValid: status.IsValid,
		Errors:  httputil.ToErrorList(models.Violations(status.Errors)).Errors,
	}
}
