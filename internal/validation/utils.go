package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/custompro98/doihaveworkerscomp/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Validate may return validator.ValidationErrors for plain tag rules, or
// CustomValidationErrors when the client needs a specific message per field.
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is an ordered list of validation issues. The first
// entry is the one reported as the response message.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	if len(c) == 0 {
		return "Validation failed"
	}
	return c[0].Message
}

const (
	messageValidationFailed = "Validation failed"
	messageInvalidRequest   = "Invalid request parameters"
)

// BindAndValidate binds path, query and body data into payload and validates it.
//
// payload must be a pointer. A bind or validation failure returns a 400
// *errs.HTTPError whose message is the first issue found.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err), nil, nil)
	}

	if err := payload.Validate(); err != nil {
		message, fieldErrors := extractValidationError(err)
		return errs.NewBadRequestError(message, nil, fieldErrors)
	}

	return nil
}

func bindErrorMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return messageInvalidRequest
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var custom CustomValidationErrors
	var validationErrors validator.ValidationErrors

	switch {
	case errors.As(err, &custom):
		for _, issue := range custom {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: issue.Field,
				Error: issue.Message,
			})
		}

	case errors.As(err, &validationErrors):
		for _, fe := range validationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: strings.ToLower(fe.Field()),
				Error: tagMessage(fe),
			})
		}

	default:
		return messageValidationFailed, nil
	}

	if len(fieldErrors) == 0 {
		return messageValidationFailed, nil
	}

	return fieldErrors[0].Error, fieldErrors
}

// tagMessage turns a validator tag failure into a client-facing message.
func tagMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)

	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())

	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())

	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())

	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())

	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", field, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s: %s", field, fe.Tag())
	}
}
