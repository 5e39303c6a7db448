// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joeshaw/envdecode"
)

// EnvDevelopment enables development-only diagnostics such as stack traces in
// tool error details.
const EnvDevelopment = "development"

// EnvProduction is the mode used when neither MCP_ENV nor NODE_ENV is set.
const EnvProduction = "production"

// Config for the example servers. Defaults are provided via struct tags.
type Config struct {
	// Env selects the runtime mode. ENV: MCP_ENV, falling back to NODE_ENV
	// and then EnvProduction.
	Env string `env:"MCP_ENV"`
	// NodeEnv is read only as the fallback for Env. ENV: NODE_ENV
	NodeEnv string `env:"NODE_ENV"`
	// LogLevel is one of debug, info, warn or error. ENV: MCP_LOG_LEVEL
	LogLevel string `env:"MCP_LOG_LEVEL,default=info"`
	// CatalogSize is the number of records served by the resource server.
	// ENV: MCP_CATALOG_SIZE
	CatalogSize int `env:"MCP_CATALOG_SIZE,default=100,strict"`
	// PingPath is the executable run by the ping tool. ENV: PING_PATH
	PingPath string `env:"PING_PATH,default=ping"`
	// ServerVersion is reported in initialize results. ENV: MCP_SERVER_VERSION
	ServerVersion string `env:"MCP_SERVER_VERSION,default=1.0.0"`
}

// Load decodes Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	if cfg.Env == "" {
		cfg.Env = cfg.NodeEnv
	}
	if cfg.Env == "" {
		cfg.Env = EnvProduction
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.CatalogSize < 0 {
		return fmt.Errorf("MCP_CATALOG_SIZE must not be negative: %d", c.CatalogSize)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.PingPath == "" {
		return errors.New("PING_PATH must not be empty")
	}
	return nil
}

// DevelopmentMode reports whether development diagnostics are enabled.
func (c Config) DevelopmentMode() bool {
	return strings.EqualFold(c.Env, EnvDevelopment)
}

// SlogLevel parses LogLevel. An empty value means info.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
