package model

import (
	"strings"

	"github.com/custompro98/doihaveworkerscomp/internal/coverage"
	"github.com/custompro98/doihaveworkerscomp/internal/validation"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Messages returned for missing request fields.
const (
	MessageMissingState        = "Please provide a supported state."
	MessageMissingBusinessName = "Please provide a valid DBA."
	MessageMissingCity         = "Please provide a valid city."
)

// CheckWorkersCompensationRequest is bound from
// GET /api/v1/:state/workers_compensation?businessName=...&city=...
//
// DBA is the older name of the businessName query parameter and is only
// consulted when businessName is absent.
type CheckWorkersCompensationRequest struct {
	State        string `param:"state" validate:"required"`
	BusinessName string `query:"businessName" validate:"required"`
	DBA          string `query:"dba"`
	City         string `query:"city" validate:"required"`
}

// fieldMessages maps a struct field to the message reported when it is missing.
var fieldMessages = map[string]struct {
	param   string
	message string
}{
	"State":        {param: "state", message: MessageMissingState},
	"BusinessName": {param: "businessName", message: MessageMissingBusinessName},
	"City":         {param: "city", message: MessageMissingCity},
}

// Normalize trims surrounding whitespace and resolves the dba alias.
func (r *CheckWorkersCompensationRequest) Normalize() {
	r.State = strings.TrimSpace(r.State)
	r.BusinessName = strings.TrimSpace(r.BusinessName)
	r.DBA = strings.TrimSpace(r.DBA)
	r.City = strings.TrimSpace(r.City)

	if r.BusinessName == "" {
		r.BusinessName = r.DBA
	}
}

// Validate normalizes r and reports every missing field, in field order.
func (r *CheckWorkersCompensationRequest) Validate() error {
	r.Normalize()

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	issues := make(validation.CustomValidationErrors, 0, len(validationErrors))
	for _, fe := range validationErrors {
		m, ok := fieldMessages[fe.StructField()]
		if !ok {
			continue
		}
		issues = append(issues, validation.CustomValidationError{
			Field:   m.param,
			Message: m.message,
		})
	}
	if len(issues) == 0 {
		return err
	}

	return issues
}

// Query converts a validated request into a coverage query.
// The state code is passed through as given; matching is case-sensitive.
func (r *CheckWorkersCompensationRequest) Query() coverage.Query {
	return coverage.Query{
		Jurisdiction: coverage.Jurisdiction(r.State),
		BusinessName: r.BusinessName,
		City:         r.City,
	}
}
