// Package validation bounds the size of filing requests before any rule runs.
package validation

import (
	"fmt"

	dErrors "pscfiling/pkg/domain-errors"
)

const (
	// MaxBodySize caps create and patch bodies.
	MaxBodySize = 64 * 1024

	MaxNaturesOfControl      = 32
	MaxNatureOfControlLength = 160

	// MaxReferenceIDLength also bounds path identifiers.
	MaxReferenceIDLength = 128
	MaxEtagLength        = 128
)

// CheckSliceCount fails when count exceeds max.
func CheckSliceCount(field string, count, max int) error {
	if count <= max {
		return nil
	}
	return violation(field, fmt.Sprintf("too many %s: max %d allowed", field, max))
}

// CheckStringLength fails when value is longer than max bytes.
func CheckStringLength(field, value string, max int) error {
	if len(value) <= max {
		return nil
	}
	return violation(field, fmt.Sprintf("%s exceeds max length of %d", field, max))
}

// CheckEachStringLength reports every element longer than max, located by
// index, e.g. natures_of_control[3].
func CheckEachStringLength(field string, values []string, max int) error {
	var vs []dErrors.Violation
	for i, v := range values {
		if len(v) > max {
			vs = append(vs, dErrors.Violation{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: fmt.Sprintf("%s exceeds max length of %d", field, max),
			})
		}
	}
	if len(vs) == 0 {
		return nil
	}
	return dErrors.WithViolations(dErrors.CodeValidation, vs[0].Message, vs)
}

func violation(field, msg string) error {
	return dErrors.WithViolations(dErrors.CodeValidation, msg, []dErrors.Violation{{Field: field, Message: msg}})
}
