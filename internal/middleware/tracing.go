package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/custompro98/doihaveworkerscomp/internal/server"
)

// errorNoticedKey marks a request whose error was already sent to New Relic.
const errorNoticedKey = "nr_error_noticed"

// MarkErrorNoticed tells EnhanceTracing that the request's error has been handled
// for New Relic, so it is not noticed a second time.
func MarkErrorNoticed(c echo.Context) {
	c.Set(errorNoticedKey, true)
}

func errorNoticed(c echo.Context) bool {
	noticed, _ := c.Get(errorNoticedKey).(bool)
	return noticed
}

// TracingMiddleware owns the New Relic echo middleware. nrApp is nil when the
// agent is disabled, and both middlewares then pass requests straight through.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

// NewTracingMiddleware constructs TracingMiddleware.
func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

// NewRelicMiddleware starts a transaction per request and stores it in the
// request context, where newrelic.FromContext and the outbound round tripper
// pick it up.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing adds client and correlation attributes to the transaction,
// notices returned errors not already marked with MarkErrorNoticed and records
// the final status code.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("http.real_ip", c.RealIP())
			txn.AddAttribute("http.user_agent", c.Request().UserAgent())

			if requestID := GetRequestID(c); requestID != "" {
				txn.AddAttribute("request.id", requestID)
			}
			if state := c.Param("state"); state != "" {
				txn.AddAttribute("coverage.jurisdiction", state)
			}

			err := next(c)
			if err != nil && !errorNoticed(c) {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}

			status := c.Response().Status
			if err != nil {
				status = statusFromError(err)
			}
			txn.AddAttribute("http.status_code", status)

			return err
		}
	}
}
