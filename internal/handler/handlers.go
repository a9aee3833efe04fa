// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It binds and validates requests through the validation
// package, calls the service layer and shapes the response.
package handler

import (
	"github.com/custompro98/doihaveworkerscomp/internal/server"
	"github.com/custompro98/doihaveworkerscomp/internal/service"
)

// Handlers groups all HTTP handlers so the router receives one value.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Coverage *CoverageHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s, services.Coverage),
		OpenAPI:  NewOpenAPIHandler(s),
		Coverage: NewCoverageHandler(s, services.Coverage),
	}
}
