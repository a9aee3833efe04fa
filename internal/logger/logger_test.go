package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/custompro98/doihaveworkerscomp/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProductionJSON(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"

	var buf bytes.Buffer
	log := newLogger(cfg, NewLoggerService(cfg), &buf)

	log.Info().Str("jurisdiction", "MI").Msg("lookup")
	log.Debug().Msg("dropped below info")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "lookup", line["message"])
	assert.Equal(t, "MI", line["jurisdiction"])
	assert.Equal(t, "doihaveworkerscomp", line["service"])
	assert.Equal(t, "production", line["environment"])
	assert.NotContains(t, buf.String(), "dropped below info")
}

func TestNewLogger_DevelopmentConsole(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)

	log.Debug().Msg("visible in development")

	assert.Contains(t, buf.String(), "visible in development")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestLoggerService_DisabledWithoutLicense(t *testing.T) {
	svc := NewLoggerService(config.DefaultObservabilityConfig())

	assert.Nil(t, svc.GetApplication())
	assert.NotPanics(t, svc.Shutdown)
}
