// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

/*
Command server runs the FinBoard widget data pipeline.

It loads configuration (defaults, then config.yaml, then environment
variables), opens the layout store, and runs three supervised layers:

	finboard
	├── data-layer       dashboard: one runtime per widget, layout persistence
	├── messaging-layer  WebSocket hub: snapshot and layout fan-out
	└── api-layer        HTTP server: REST API, /api/v1/ws, /metrics

SIGINT and SIGTERM cancel the tree. Each service gets SUPERVISOR_SHUTDOWN_TIMEOUT
to stop; the HTTP server drains in-flight requests in that window.

Example:

	export HTTP_PORT=8080
	export LAYOUT_BACKEND=badger
	export LAYOUT_PATH=/data/finboard/layout.db
	export LAYOUT_SEED_TEMPLATE=market-overview
	./finboard

See internal/config for the full list of variables.
*/
package main
