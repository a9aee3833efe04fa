package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custompro98/doihaveworkerscomp/internal/coverage"
	"github.com/custompro98/doihaveworkerscomp/internal/metrics"
	"github.com/custompro98/doihaveworkerscomp/internal/server"
	"github.com/rs/zerolog"
)

// CoverageService answers "does this business carry workers' compensation coverage?"
type CoverageService struct {
	server   *server.Server
	registry *coverage.Registry
}

// NewCoverageService creates a CoverageService dispatching through registry.
func NewCoverageService(s *server.Server, registry *coverage.Registry) *CoverageService {
	return &CoverageService{
		server:   s,
		registry: registry,
	}
}

// Verify looks q up in its jurisdiction's registry.
//
// An unregistered jurisdiction returns *coverage.UnsupportedJurisdictionError
// without any network call. Lookup failures are returned wrapped; a negative
// registry answer is not an error.
func (cs *CoverageService) Verify(ctx context.Context, q coverage.Query) (coverage.Outcome, error) {
	jurisdiction := string(q.Jurisdiction)

	logger := cs.loggerFor(ctx).With().
		Str("operation", "verify_coverage").
		Str("jurisdiction", jurisdiction).
		Logger()

	lookuper, err := cs.registry.Lookuper(q.Jurisdiction)
	if err != nil {
		cs.server.Metrics.RecordVerification(metrics.JurisdictionUnsupported, metrics.OutcomeUnsupported)
		return coverage.Outcome{}, err
	}

	start := time.Now()
	result, err := lookuper.Lookup(ctx, q)
	elapsed := time.Since(start)

	cs.server.Metrics.ObserveLookup(jurisdiction, elapsed, err)

	if threshold := cs.slowLookupThreshold(); threshold > 0 && elapsed > threshold {
		logger.Warn().
			Dur("lookup_duration", elapsed).
			Dur("threshold", threshold).
			Msg("slow registry lookup")
	}

	if err != nil {
		cs.server.Metrics.RecordVerification(jurisdiction, metrics.OutcomeError)
		return coverage.Outcome{}, fmt.Errorf("coverage lookup for %s: %w", jurisdiction, err)
	}

	outcome := coverage.OutcomeOf(result)

	label := metrics.OutcomeNotValidated
	if outcome.Validated {
		label = metrics.OutcomeValidated
	}
	cs.server.Metrics.RecordVerification(jurisdiction, label)

	logger.Info().
		Bool("validated", outcome.Validated).
		Bool("registry_success", result != nil && result.Success).
		Dur("lookup_duration", elapsed).
		Msg("coverage verified")

	return outcome, nil
}

// Jurisdictions lists the supported jurisdiction codes.
func (cs *CoverageService) Jurisdictions() []coverage.Jurisdiction {
	return cs.registry.Jurisdictions()
}

// ErrProbeUnsupported is reported for a configured health check whose
// lookuper cannot be pinged.
var ErrProbeUnsupported = errors.New("registry does not support health probes")

// Probe pings the registry behind each jurisdiction in codes, each bounded by timeout.
// The returned map holds one entry per code; nil means reachable.
func (cs *CoverageService) Probe(ctx context.Context, codes []string, timeout time.Duration) map[string]error {
	results := make(map[string]error, len(codes))

	for _, code := range codes {
		lookuper, err := cs.registry.Lookuper(coverage.Jurisdiction(code))
		if err != nil {
			results[code] = err
			continue
		}

		pinger, ok := lookuper.(coverage.Pinger)
		if !ok {
			results[code] = ErrProbeUnsupported
			continue
		}

		probeCtx, cancel := context.WithTimeout(ctx, timeout)
		results[code] = pinger.Ping(probeCtx)
		cancel()
	}

	return results
}

func (cs *CoverageService) slowLookupThreshold() time.Duration {
	if cs.server.Config == nil || cs.server.Config.Observability == nil {
		return 0
	}
	return cs.server.Config.Observability.Logging.SlowLookupThreshold
}

// loggerFor prefers the request-scoped logger placed in ctx by the context enhancer.
func (cs *CoverageService) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	if cs.server.Logger != nil {
		return cs.server.Logger
	}
	nop := zerolog.Nop()
	return &nop
}
