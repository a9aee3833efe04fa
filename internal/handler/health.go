package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/custompro98/doihaveworkerscomp/internal/middleware"
	"github.com/custompro98/doihaveworkerscomp/internal/server"
	"github.com/custompro98/doihaveworkerscomp/internal/service"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports whether the service is up and which state registries
// it can reach.
type HealthHandler struct {
	Handler
	coverage *service.CoverageService
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(s *server.Server, coverageService *service.CoverageService) *HealthHandler {
	return &HealthHandler{
		Handler:  NewHandler(s),
		coverage: coverageService,
	}
}

// CheckHealth returns overall status, environment, supported jurisdictions and,
// when health checks are enabled, a reachability probe of each configured
// registry.
//
// It returns 200 when every probe passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]any)
	response := map[string]any{
		"status":        "healthy",
		"timestamp":     time.Now().UTC(),
		"environment":   h.server.Config.Primary.Env,
		"jurisdictions": h.coverage.Jurisdictions(),
		"checks":        checks,
	}

	isHealthy := true

	if hc := h.server.Config.Observability.HealthChecks; hc.Enabled && len(hc.Checks) > 0 {
		ctx, cancel := context.WithTimeout(c.Request().Context(), hc.Timeout*time.Duration(len(hc.Checks)))
		defer cancel()

		for code, err := range h.coverage.Probe(ctx, hc.Checks, hc.Timeout) {
			check := "registry_" + code

			if err != nil {
				isHealthy = false
				checks[check] = map[string]any{
					"status": "unhealthy",
					"error":  err.Error(),
				}

				logger.Error().
					Err(err).
					Str("jurisdiction", code).
					Msg("registry health check failed")

				h.recordHealthCheckError(map[string]any{
					"check_type":    check,
					"operation":     "health_check",
					"error_type":    "registry_unreachable",
					"error_message": err.Error(),
				})
				continue
			}

			checks[check] = map[string]any{"status": "healthy"}
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthCheckError(map[string]any{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) recordHealthCheckError(attrs map[string]any) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
