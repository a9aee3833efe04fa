package handler

import (
	"github.com/custompro98/doihaveworkerscomp/internal/coverage"
	"github.com/custompro98/doihaveworkerscomp/internal/errs"
	"github.com/custompro98/doihaveworkerscomp/internal/model"
	"github.com/custompro98/doihaveworkerscomp/internal/server"
	"github.com/custompro98/doihaveworkerscomp/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CoverageHandler serves the workers' compensation validation endpoint.
type CoverageHandler struct {
	Handler
	coverage *service.CoverageService
}

// NewCoverageHandler constructs a CoverageHandler.
func NewCoverageHandler(s *server.Server, coverageService *service.CoverageService) *CoverageHandler {
	return &CoverageHandler{
		Handler:  NewHandler(s),
		coverage: coverageService,
	}
}

// Check answers whether the business in req is covered in req.State.
//
// An unsupported state is a 400. A negative or unsuccessful registry answer is
// a 200 with validated=false. Anything that stops the registry from answering
// is returned as-is; the global error handler logs it and answers a generic 500.
func (h *CoverageHandler) Check(c echo.Context, req *model.CheckWorkersCompensationRequest) (coverage.Outcome, error) {
	outcome, err := h.coverage.Verify(c.Request().Context(), req.Query())
	if err == nil {
		return outcome, nil
	}

	var unsupported *coverage.UnsupportedJurisdictionError
	if errors.As(err, &unsupported) {
		code := errs.CodeUnsupportedJurisdiction
		return coverage.Outcome{}, errs.NewBadRequestError(unsupported.Error(), &code, nil)
	}

	return coverage.Outcome{}, err
}
