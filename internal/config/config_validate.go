// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/finboard/internal/layout"
	"github.com/tomtom215/finboard/internal/templates"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	if err := c.validateLayout(); err != nil {
		return err
	}

	if err := c.validateConnector(); err != nil {
		return err
	}

	if err := c.validateExplorer(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validEnvironments defines the allowed server environments
var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return fmt.Errorf("HTTP timeouts must not be negative")
	}
	return c.validateCORS()
}

// validateCORS validates each configured origin
func (c *Config) validateCORS() error {
	if len(c.Server.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin (use * to allow all)")
	}
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			continue
		}
		if err := validateHTTPURL(origin, "CORS_ORIGINS"); err != nil {
			return err
		}
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.HasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits validates API rate limiting bounds
func (c *Config) validateRateLimits() error {
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitReqs < minRateLimitRequests || c.Server.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Server.RateLimitWindow < minRateLimitWindow || c.Server.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateLayout validates layout persistence settings
func (c *Config) validateLayout() error {
	switch c.Layout.Backend {
	case layout.BackendFile, layout.BackendBadger:
		if c.Layout.Path == "" {
			return fmt.Errorf("LAYOUT_PATH is required when LAYOUT_BACKEND=%s", c.Layout.Backend)
		}
	case layout.BackendMemory:
	default:
		return fmt.Errorf("LAYOUT_BACKEND must be one of: file, badger, memory")
	}

	if c.Layout.SeedTemplate != "" {
		if _, err := templates.Lookup(c.Layout.SeedTemplate); err != nil {
			return fmt.Errorf("LAYOUT_SEED_TEMPLATE: %w", err)
		}
	}
	return nil
}

// validateConnector validates connector defaults
func (c *Config) validateConnector() error {
	if c.Connector.HTTPTimeout <= 0 {
		return fmt.Errorf("CONNECTOR_HTTP_TIMEOUT must be positive")
	}
	if c.Connector.HandshakeTimeout <= 0 {
		return fmt.Errorf("CONNECTOR_HANDSHAKE_TIMEOUT must be positive")
	}
	if c.Connector.CooldownSeconds < 0 {
		return fmt.Errorf("CONNECTOR_COOLDOWN_SECONDS must not be negative")
	}
	if c.Connector.MaxMessageBytes <= 0 || c.Connector.MaxBodyBytes <= 0 {
		return fmt.Errorf("connector size limits must be positive")
	}
	return nil
}

// validateExplorer validates explorer throttling settings
func (c *Config) validateExplorer() error {
	if c.Explorer.RatePerSecond <= 0 {
		return fmt.Errorf("EXPLORER_RATE_PER_SECOND must be positive")
	}
	if c.Explorer.Burst < 1 {
		return fmt.Errorf("EXPLORER_BURST must be at least 1")
	}
	if c.Explorer.BreakerFailures == 0 {
		return fmt.Errorf("EXPLORER_BREAKER_FAILURES must be at least 1")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
