// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

/*
Package config loads and validates FinBoard configuration.

# Configuration Sources

Configuration is layered with Koanf v2, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, then config.yaml, config.yml,
    /etc/finboard/config.yaml, /etc/finboard/config.yml
 3. Environment variables listed in envMappings

The merged result is validated before Load returns it. Startup
configuration errors are the only fatal errors in the service.

# Environment Variables

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8080)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT
  - ENVIRONMENT: development, staging or production
  - CORS_ORIGINS: Comma-separated origins, * for any (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include file:line (default: false)

Layout:
  - LAYOUT_BACKEND: file, badger or memory (default: file)
  - LAYOUT_PATH: default /data/finboard/layout.json
  - LAYOUT_SEED_TEMPLATE: crypto-live or market-overview (default: none)

Connectors:
  - CONNECTOR_HTTP_TIMEOUT (default: 30s)
  - CONNECTOR_HANDSHAKE_TIMEOUT (default: 10s)
  - CONNECTOR_COOLDOWN_SECONDS: Pause after HTTP 429 (default: 60)
  - CONNECTOR_MAX_MESSAGE_BYTES, CONNECTOR_MAX_BODY_BYTES, CONNECTOR_USER_AGENT

Explorer:
  - EXPLORER_RATE_PER_SECOND (default: 2), EXPLORER_BURST (default: 5)
  - EXPLORER_BREAKER_FAILURES (default: 5), EXPLORER_BREAKER_TIMEOUT (default: 30s)

Supervisor:
  - SUPERVISOR_FAILURE_THRESHOLD, SUPERVISOR_FAILURE_DECAY
  - SUPERVISOR_FAILURE_BACKOFF, SUPERVISOR_SHUTDOWN_TIMEOUT

# Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatalf("config: %v", err)
	}
	logging.Init(cfg.LoggingOptions())
*/
package config
