package service

import (
	"github.com/custompro98/doihaveworkerscomp/internal/coverage"
	"github.com/custompro98/doihaveworkerscomp/internal/lib/worcs"
	"github.com/custompro98/doihaveworkerscomp/internal/server"
)

// Services is a container that groups all business services.
type Services struct {
	Coverage *CoverageService
}

// NewServices registers every supported jurisdiction and builds the services.
//
// Supporting a new state means adding its client under internal/lib and one
// Register call here.
func NewServices(s *server.Server) (*Services, error) {
	registry := coverage.NewRegistry()
	registry.Register(coverage.Michigan, worcs.NewClient(s.Config.Registry.Michigan, s.Logger))

	return NewServicesWithRegistry(s, registry), nil
}

// NewServicesWithRegistry builds the services around a caller-supplied registry.
func NewServicesWithRegistry(s *server.Server, registry *coverage.Registry) *Services {
	return &Services{
		Coverage: NewCoverageService(s, registry),
	}
}
