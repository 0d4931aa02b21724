package catalog

import (
	"errors"
	"fmt"
)

const (
	RuleRequired = "required"
	RuleUnique   = "unique"
	RuleExists   = "exists"
)

// ValidationError reports the first field of a submission that broke a rule.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s (%s): %s", e.Field, e.Rule, e.Message)
}

// NewUniqueError is returned when field collides with another record,
// whether caught by the pre-check or by a database constraint.
func NewUniqueError(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Rule:    RuleUnique,
		Message: "has already been taken",
	}
}

func NewRequiredError(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Rule:    RuleRequired,
		Message: "field is required",
	}
}

func NewExistsError(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Rule:    RuleExists,
		Message: "does not reference an existing record",
	}
}

// AsValidationError unwraps err to a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
