package patch

import (
	"errors"

	"pscfiling/internal/filing/models"
	"pscfiling/pkg/platform/sentinel"
)

var (
	// ErrMergeFailed means the patch document could not be applied to the
	// stored filing. It is not retried.
	ErrMergeFailed = errors.New("merge patch failed")

	// ErrRetriesExhausted means every attempt lost a conditional update.
	ErrRetriesExhausted = errors.New("patch retries exhausted")
)

// Outcome is the kind of Result.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRetrievalFailure
	OutcomeValidationFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetrievalFailure:
		return "retrieval_failure"
	case OutcomeValidationFailure:
		return "validation_failure"
	default:
		return "unknown"
	}
}

// Result is the answer to one patch request. Filing is set on success,
// Reason on retrieval failure and Errors on validation failure.
type Result struct {
	Outcome Outcome
	Filing  models.Filing
	Reason  string
	Errors  []models.FieldError
}

func Success(f models.Filing) Result {
	return Result{Outcome: OutcomeSuccess, Filing: f}
}

func RetrievalFailure(reason string) Result {
	return Result{Outcome: OutcomeRetrievalFailure, Reason: reason}
}

func ValidationFailure(errs []models.FieldError) Result {
	return Result{Outcome: OutcomeValidationFailure, Errors: errs}
}

// Retry runs attempt until it returns something other than a version
// conflict, at most maxRetries times in total. attempt receives the 1-based
// attempt number and must start from freshly fetched state each time.
func Retry(maxRetries int, attempt func(n int) (Result, error)) (Result, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}
	for n := 1; n <= maxRetries; n++ {
		res, err := attempt(n)
		if errors.Is(err, sentinel.ErrConflict) {
			continue
		}
		return res, err
	}
	return Result{}, ErrRetriesExhausted
}
