package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/custompro98/doihaveworkerscomp/internal/config"
	"github.com/custompro98/doihaveworkerscomp/internal/errs"
	"github.com/custompro98/doihaveworkerscomp/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, log zerolog.Logger) *server.Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Primary.Env = "test"

	s, err := server.New(cfg, &log, nil)
	require.NoError(t, err)

	return s
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "application error passes through",
			err:         errs.NewBadRequestError("Please provide a valid city.", nil, []errs.FieldError{{Field: "city", Error: "Please provide a valid city."}}),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "BAD_REQUEST",
			wantMessage: "Please provide a valid city.",
		},
		{
			name:        "unknown route",
			err:         echo.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantCode:    "NOT_FOUND",
			wantMessage: "Route not found",
		},
		{
			name:        "method not allowed keeps echo status",
			err:         echo.ErrMethodNotAllowed,
			wantStatus:  http.StatusMethodNotAllowed,
			wantCode:    "METHOD_NOT_ALLOWED",
			wantMessage: "Method Not Allowed",
		},
		{
			name:        "rate limiter denial",
			err:         echo.ErrTooManyRequests,
			wantStatus:  http.StatusTooManyRequests,
			wantCode:    "TOO_MANY_REQUESTS",
			wantMessage: "Too Many Requests",
		},
		{
			name:        "plain error is a generic 500",
			err:         errors.New("pq: password authentication failed"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_SERVER_ERROR",
			wantMessage: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			global := NewGlobalMiddlewares(newTestServer(t, zerolog.Nop()))

			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			require.Equal(t, tt.wantStatus, rec.Code)

			var body errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.NotContains(t, rec.Body.String(), "password")
		})
	}
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = GetRequestID(c)
		return c.NoContent(http.StatusOK)
	}, RequestID())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	e.ServeHTTP(httptest.NewRecorder(), req)
	assert.Len(t, seen, 36)
}

func TestEnhanceContext_PropagatesLogger(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(t, zerolog.New(&buf))

	e := echo.New()
	e.GET("/api/v1/:state/workers_compensation", func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("from context")
		GetLogger(c).Info().Msg("from echo")
		return c.NoContent(http.StatusOK)
	}, RequestID(), NewContextEnhancer(s).EnhanceContext())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/MI/workers_compensation", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	e.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, "req-42", entry["request_id"])
		assert.Equal(t, "/api/v1/:state/workers_compensation", entry["path"])
		assert.Equal(t, http.MethodGet, entry["method"])
	}
}

func TestGetLogger_WithoutEnhancer(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, zerolog.Nop())
	s.Config.Server.RateLimit.RequestsPerSecond = 0.001
	s.Config.Server.RateLimit.Burst = 2

	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	e.Use(NewRateLimitMiddleware(s).Limit())

	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/api/v1/:state/workers_compensation", ok)
	e.GET("/status", ok)

	do := func(path string) int {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("/api/v1/MI/workers_compensation"))
	assert.Equal(t, http.StatusOK, do("/api/v1/MI/workers_compensation"))
	assert.Equal(t, http.StatusTooManyRequests, do("/api/v1/MI/workers_compensation"))

	// System routes are never limited.
	assert.Equal(t, http.StatusOK, do("/status"))
}

func TestRateLimit_Disabled(t *testing.T) {
	s := newTestServer(t, zerolog.Nop())
	s.Config.Server.RateLimit.Enabled = false
	s.Config.Server.RateLimit.RequestsPerSecond = 0.001
	s.Config.Server.RateLimit.Burst = 1

	e := echo.New()
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/api/v1/:state/workers_compensation", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for range 3 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/MI/workers_compensation", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestMarkErrorNoticed(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.False(t, errorNoticed(c))

	MarkErrorNoticed(c)
	assert.True(t, errorNoticed(c))
}
