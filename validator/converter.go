// Package validator bridges ozzo-validation errors into layered
// error codes so handlers return structured validation failures.
package validator

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/KOMKZ/go-yogan-container/errcode"
)

// Validatable is implemented by request DTOs.
type Validatable interface {
	Validate() error
}

// ValidateRequest runs req.Validate and converts ozzo field errors
// into a single layered error carrying the per-field messages.
func ValidateRequest(req Validatable) error {
	err := req.Validate()
	if err == nil {
		return nil
	}
	if validationErrs, ok := err.(validation.Errors); ok {
		return ConvertValidationError(validationErrs)
	}
	return err
}

// ConvertValidationError flattens field errors into the generic
// validation-failed error code.
func ConvertValidationError(validationErrs validation.Errors) error {
	fields := make(map[string]string)
	for field, fieldErr := range validationErrs {
		if fieldErr != nil {
			fields[field] = fieldErr.Error()
		}
	}

	return errcode.New(
		1, 1010,
		"common",
		"error.common.validation_failed",
		"validation failed",
		400,
	).WithData("fields", fields)
}
