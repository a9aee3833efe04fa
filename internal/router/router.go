// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net"
	"net/http"

	"github.com/custompro98/doihaveworkerscomp/internal/handler"
	"github.com/custompro98/doihaveworkerscomp/internal/middleware"
	"github.com/custompro98/doihaveworkerscomp/internal/model"
	"github.com/custompro98/doihaveworkerscomp/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with global middleware, system routes
// and the versioned API.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler
	router.IPExtractor = ipExtractor(s.Config.Server.TrustedProxies)

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(s, router, h)

	v1 := router.Group("/api/v1")
	registerCoverageRoutes(v1, h)

	return router
}

func registerCoverageRoutes(g *echo.Group, h *handler.Handlers) {
	g.GET("/:state/workers_compensation", handler.Handle[model.CheckWorkersCompensationRequest](
		h.Coverage.Handler,
		h.Coverage.Check,
		http.StatusOK,
	))
}

// ipExtractor reads X-Forwarded-For only through the given trusted proxies,
// and otherwise uses the direct peer address. CIDRs are validated at config
// load, so unparsable entries are skipped.
func ipExtractor(trustedProxies []string) echo.IPExtractor {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect()
	}

	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		options = append(options, echo.TrustIPRange(ipNet))
	}

	return echo.ExtractIPFromXFFHeader(options...)
}
