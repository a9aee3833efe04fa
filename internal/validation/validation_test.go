package validation

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/custompro98/doihaveworkerscomp/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taggedRequest struct {
	Name  string `query:"name" validate:"required,min=3"`
	State string `query:"state" validate:"required,len=2"`
}

func (r *taggedRequest) Validate() error {
	return validator.New().Struct(r)
}

type customRequest struct {
	City string `query:"city"`
}

func (r *customRequest) Validate() error {
	if r.City == "" {
		return CustomValidationErrors{
			{Field: "city", Message: "Please provide a valid city."},
			{Field: "zip", Message: "Please provide a zip code."},
		}
	}
	return nil
}

type countRequest struct {
	Limit int `query:"limit"`
}

func (r *countRequest) Validate() error { return nil }

func newContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidate_TagRules(t *testing.T) {
	payload := &taggedRequest{}

	err := BindAndValidate(newContext("/?name=ab"), payload)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "name must be at least 3 characters", httpErr.Message)
	assert.Equal(t, []errs.FieldError{
		{Field: "name", Error: "name must be at least 3 characters"},
		{Field: "state", Error: "state is required"},
	}, httpErr.Errors)
}

func TestBindAndValidate_CustomErrorsKeepOrder(t *testing.T) {
	err := BindAndValidate(newContext("/"), &customRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Please provide a valid city.", httpErr.Message)
	require.Len(t, httpErr.Errors, 2)
	assert.Equal(t, "zip", httpErr.Errors[1].Field)
}

func TestBindAndValidate_Success(t *testing.T) {
	payload := &taggedRequest{}

	require.NoError(t, BindAndValidate(newContext("/?name=Acme&state=MI"), payload))
	assert.Equal(t, "Acme", payload.Name)
	assert.Equal(t, "MI", payload.State)
}

func TestBindAndValidate_BindFailure(t *testing.T) {
	err := BindAndValidate(newContext("/?limit=lots"), &countRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.NotEmpty(t, httpErr.Message)
	assert.Empty(t, httpErr.Errors)
}

func TestCustomValidationErrors_Error(t *testing.T) {
	assert.Equal(t, "Validation failed", CustomValidationErrors{}.Error())
	assert.Equal(t, "first", CustomValidationErrors{{Field: "a", Message: "first"}, {Field: "b", Message: "second"}}.Error())
}
