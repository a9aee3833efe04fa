package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/custompro98/doihaveworkerscomp/internal/coverage"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingLookuper struct {
	recordingLookuper
	pingErr error
}

func (p *pingLookuper) Ping(ctx context.Context) error {
	return p.pingErr
}

func checkHealth(t *testing.T, lookuper coverage.Lookuper) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	_, h := newTestHandlers(t, lookuper)

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)
	require.NoError(t, h.Health.CheckHealth(c))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec, body
}

func TestCheckHealth_Healthy(t *testing.T) {
	rec, body := checkHealth(t, &pingLookuper{})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["environment"])
	assert.Equal(t, []any{"MI"}, body["jurisdictions"])
	assert.Equal(t, map[string]any{
		"registry_MI": map[string]any{"status": "healthy"},
	}, body["checks"])
}

func TestCheckHealth_UnreachableRegistry(t *testing.T) {
	rec, body := checkHealth(t, &pingLookuper{pingErr: errors.New("dial tcp: i/o timeout")})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", body["status"])

	checks, ok := body["checks"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"status": "unhealthy",
		"error":  "dial tcp: i/o timeout",
	}, checks["registry_MI"])
}

func TestCheckHealth_RegistryWithoutProbe(t *testing.T) {
	rec, body := checkHealth(t, &recordingLookuper{})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", body["status"])
}
