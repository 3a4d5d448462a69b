package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	dErrors "pscfiling/pkg/domain-errors"
	pstrings "pscfiling/pkg/platform/strings"
)

// DateLayout is the ISO-8601 calendar date format filings use on the wire.
const DateLayout = "2006-01-02"

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	return v
}

// jsonFieldName reports fields by their json name so violations line up with
// the json-path locations clients see.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Validate validates a struct using the default validator. Every failing field
// becomes a violation on the returned domain error.
func Validate(req any) error {
	err := defaultValidator.Struct(req)
	if err == nil {
		return nil
	}
	violations := Violations(err)
	if len(violations) == 0 {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return dErrors.WithViolations(dErrors.CodeValidation, violations[0].Message, violations)
}

// Violations converts validator errors into field violations, preserving order.
func Violations(err error) []dErrors.Violation {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}
	out := make([]dErrors.Violation, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, dErrors.Violation{Field: fieldPath(fe), Message: message(fe)})
	}
	return out
}

// ErrorMessage converts a validator error into a human-readable message
func ErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid request body"
	}
	return message(validationErrs[0])
}

// fieldPath strips the root struct name from the validator namespace, e.g.
// "createRequest.name_elements.surname" becomes "name_elements.surname".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return field(fe)
}

func field(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		name = fe.StructField()
	}
	return pstrings.SnakeCase(name)
}

func message(fe validator.FieldError) string {
	f := field(fe)
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", f)
	case "uuid":
		return fmt.Sprintf("%s must be a valid uuid", f)
	case "min":
		return fmt.Sprintf("%s must be at least %s", f, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", f, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", f, fe.Param())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", f)
	case "isodate":
		return fmt.Sprintf("%s must be a date in the format yyyy-mm-dd", f)
	default:
		if f == "" {
			return "invalid request body"
		}
		return fmt.Sprintf("%s is invalid", f)
	}
}
