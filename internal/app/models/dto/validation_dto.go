package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// HandleValidationError converts validator errors into a single ErrorDetail
// listing every failed field.
func HandleValidationError(err error) *ErrorDetail {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return NewErrorDetail(ErrorCodeValidationFailed, err.Error())
	}

	detail := NewErrorDetail(ErrorCodeValidationFailed, "Validation failed")
	fields := make([]map[string]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, map[string]string{
			"field":   fe.Field(),
			"message": formatFieldError(fe),
		})
	}
	return detail.WithDetails(fields)
}

// formatFieldError creates a human-readable validation error message.
func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gte":
		return e.Field() + " must be at least " + e.Param()
	case "lte":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "len":
		return e.Field() + " must be exactly " + e.Param() + " characters"
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "numeric":
		return e.Field() + " must contain only digits"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
