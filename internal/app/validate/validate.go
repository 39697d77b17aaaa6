// Package validate adapts struct validation to the application error
// taxonomy.
package validate

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/tunecrate/tunecrate/internal/apperr"
)

var validate = validator.New()

// Struct validates v against its `validate` tags. Violations come back as a
// single InputValidation error with one entry per offending field, ordered
// as encountered.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(errors.Wrap(err, "validator failed"))
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{
			Field:         fieldName(fe.Field()),
			RejectedValue: fe.Value(),
			Message:       violationMessage(fe),
		})
	}
	return apperr.Validation(fields)
}

// fieldName lowercases the leading rune so struct fields read like their
// JSON counterparts.
func fieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be blank"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "failed validation rule '" + fe.Tag() + "'"
	}
}
