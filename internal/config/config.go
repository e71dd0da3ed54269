// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/finboard/internal/logging"
)

// Config holds all application configuration.
// Tags map to koanf paths; see LoadWithKoanf for the layering rules.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Layout     LayoutConfig     `koanf:"layout"`
	Connector  ConnectorConfig  `koanf:"connector"`
	Explorer   ExplorerConfig   `koanf:"explorer"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// ServerConfig holds HTTP listener and API settings.
type ServerConfig struct {
	Port         int           `koanf:"port"`
	Host         string        `koanf:"host"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	Environment  string        `koanf:"environment"` // "development", "staging", "production"

	// CORSOrigins also governs which WebSocket origins are accepted.
	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// LayoutConfig selects where the widget list is persisted.
//
// Environment Variables:
//   - LAYOUT_BACKEND: file, badger or memory (default: file)
//   - LAYOUT_PATH: JSON file, or BadgerDB directory for badger
//   - LAYOUT_SEED_TEMPLATE: template installed when no layout is stored
type LayoutConfig struct {
	Backend      string `koanf:"backend"`
	Path         string `koanf:"path"`
	SeedTemplate string `koanf:"seed_template"`
}

// ConnectorConfig holds defaults shared by every widget's source connector.
type ConnectorConfig struct {
	HTTPTimeout      time.Duration `koanf:"http_timeout"`
	HandshakeTimeout time.Duration `koanf:"handshake_timeout"`

	// CooldownSeconds is how long a REST widget waits after an HTTP 429.
	CooldownSeconds int `koanf:"cooldown_seconds"`

	MaxMessageBytes int64  `koanf:"max_message_bytes"`
	MaxBodyBytes    int64  `koanf:"max_body_bytes"`
	UserAgent       string `koanf:"user_agent"`
}

// ExplorerConfig bounds the outbound traffic of the API explorer.
type ExplorerConfig struct {
	RatePerSecond   float64       `koanf:"rate_per_second"`
	Burst           int           `koanf:"burst"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// SupervisorConfig mirrors the suture failure parameters.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// LoggingOptions converts the logging section for logging.Init.
func (c *Config) LoggingOptions() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	if c.Logging.Format != "" {
		lc.Format = c.Logging.Format
	}
	lc.Caller = c.Logging.Caller
	return lc
}

// String summarizes the configuration for the startup log line.
func (c *Config) String() string {
	return fmt.Sprintf("addr=%s env=%s layout=%s:%s", c.Server.Addr(), c.Server.Environment, c.Layout.Backend, c.Layout.Path)
}
