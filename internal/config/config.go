// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types, applies defaults and
// validates that required values are present so they can be reused across
// the application runtime.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process env, if one exists.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from every environment variable read into Config.
//
// Nesting uses a double underscore:
//
//	DOIHAVEWORKERSCOMP_SERVER__PORT              -> server.port
//	DOIHAVEWORKERSCOMP_REGISTRY__MICHIGAN__TIMEOUT -> registry.michigan.timeout
const EnvPrefix = "DOIHAVEWORKERSCOMP_"

const serviceName = "doihaveworkerscomp"

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Registry      RegistryConfig       `koanf:"registry" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string          `koanf:"port" validate:"required"`
	ReadTimeout        int             `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int             `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int             `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string        `koanf:"cors_allowed_origins" validate:"required"`
	RateLimit          RateLimitConfig `koanf:"rate_limit"`

	// TrustedProxies lists the CIDRs whose X-Forwarded-For header is believed.
	// Empty means the client IP is the socket peer address.
	TrustedProxies []string `koanf:"trusted_proxies" validate:"omitempty,dive,cidr"`
}

// RateLimitConfig throttles inbound lookups per client IP so a single caller
// cannot hammer the upstream state registries through us.
type RateLimitConfig struct {
	Enabled           bool          `koanf:"enabled"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
	Burst             int           `koanf:"burst" validate:"gte=0"`
	ExpiresIn         time.Duration `koanf:"expires_in"`
}

// RegistryConfig holds one block per state coverage registry.
type RegistryConfig struct {
	Michigan MichiganRegistryConfig `koanf:"michigan" validate:"required"`
}

// MichiganRegistryConfig points at the Michigan WORCS insurance coverage search.
//
// Timeout of zero leaves the transport default in place.
type MichiganRegistryConfig struct {
	Endpoint       string        `koanf:"endpoint" validate:"required,url"`
	AcceptLanguage string        `koanf:"accept_language" validate:"required"`
	Timeout        time.Duration `koanf:"timeout" validate:"gte=0"`
}

// DefaultConfig returns the configuration used before the environment is
// applied. Everything except primary.env has a usable default.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerSecond: 5,
				Burst:             10,
				ExpiresIn:         3 * time.Minute,
			},
		},
		Registry: RegistryConfig{
			Michigan: MichiganRegistryConfig{
				Endpoint:       "https://app.leo.state.mi.us/WORCS/api/Entities/InsuranceCoverage/GetInsuranceCoverage",
				AcceptLanguage: "en-US,en;q=0.9,la;q=0.8",
			},
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables on top of
// DefaultConfig, validates it and returns the result.
//
// Behavior summary:
//   - Loads env vars with prefix DOIHAVEWORKERSCOMP_
//   - Converts "__" in env keys into koanf's "." nesting
//   - Unmarshals into Config, keeping defaults for anything unset
//   - Validates required config blocks/fields
//   - Sets default observability if missing, then validates it separately
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := DefaultConfig()

	// Unmarshal only touches keys present in koanf, so defaults survive,
	// including inside the pre-allocated Observability block.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment always follows primary.env.
	mainConfig.Observability.ServiceName = serviceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
