package server

import (
	"context"
	"testing"

	"github.com/custompro98/doihaveworkerscomp/internal/config"
	"github.com/custompro98/doihaveworkerscomp/internal/logger"
	"github.com/custompro98/doihaveworkerscomp/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Primary.Env = "test"
	log := zerolog.Nop()

	s, err := New(cfg, &log, logger.NewLoggerService(cfg.Observability))
	require.NoError(t, err)

	assert.NotNil(t, s.MetricsRegistry)
	require.NotNil(t, s.Metrics)

	s.Metrics.RecordVerification("MI", metrics.OutcomeValidated)
	families, err := s.MetricsRegistry.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "doihaveworkerscomp_verifications_total")
}

func TestNew_RequiresConfig(t *testing.T) {
	log := zerolog.Nop()

	_, err := New(nil, &log, nil)
	assert.Error(t, err)
}

func TestStart_WithoutSetup(t *testing.T) {
	cfg := config.DefaultConfig()
	log := zerolog.Nop()

	s, err := New(cfg, &log, nil)
	require.NoError(t, err)

	assert.EqualError(t, s.Start(), "HTTP server not initialized")
	assert.NoError(t, s.Shutdown(context.Background()))
}
