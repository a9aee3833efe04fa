package router

import (
	"github.com/custompro98/doihaveworkerscomp/internal/handler"
	"github.com/custompro98/doihaveworkerscomp/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerSystemRoutes registers endpoints that sit outside the versioned API.
func registerSystemRoutes(s *server.Server, r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.MetricsRegistry, promhttp.HandlerOpts{
		Registry: s.MetricsRegistry,
	})))

	r.Static("/static", handler.StaticDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
