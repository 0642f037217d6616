package apperror

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FromValidator converts a validator/v10 failure into a validation error
// whose details map each failing field to the rule it broke.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewValidation(err.Error())
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[fe.Namespace()] = rule
	}
	return NewValidation("invalid input").WithDetail("fields", fields)
}
