// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, as in GQLCOMPOSE_ADDR.
const Prefix = "GQLCOMPOSE"

// Config holds all configuration for the process.
type Config struct {
	// Server
	Addr            string        `envconfig:"ADDR" default:":8080"`
	Pretty          bool          `envconfig:"PRETTY" default:"false"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	MaxBodyBytes    int64         `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS"`
	MetadataHeaders []string      `envconfig:"METADATA_HEADERS"`

	// CLI
	SDLOut   string `envconfig:"SDL_OUT" default:"schema.graphql"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Telemetry
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT"`
	OTELProtocol string `envconfig:"OTEL_PROTOCOL" default:"grpc"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"gqlcompose"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.OTELProtocol {
	case "grpc", "http":
	default:
		return fmt.Errorf("OTEL_PROTOCOL must be grpc or http, got %q", c.OTELProtocol)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout)
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("MAX_BODY_BYTES must not be negative, got %d", c.MaxBodyBytes)
	}
	return nil
}
