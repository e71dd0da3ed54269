// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

/*
Package metrics provides Prometheus metrics for the widget pipeline.

Metrics are registered with the default registry through promauto and are
exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Source Metrics:
  - finboard_source_fetches_total: REST fetches (counter). Labels: result
  - finboard_source_fetch_duration_seconds: REST fetch latency (histogram)
  - finboard_source_rate_limit_hits_total: 429 responses (counter)
  - finboard_socket_frames_total: source socket frames (counter). Labels: result
  - finboard_socket_connections_active: open source sockets (gauge)

Widget Metrics:
  - finboard_widget_runtimes_active: running runtimes (gauge)
  - finboard_connector_restarts_total: connector replacements (counter). Labels: reason
  - finboard_stale_events_dropped_total: events from replaced connectors (counter)
  - finboard_layout_saves_total: layout writes (counter). Labels: backend, result
  - finboard_layout_widgets: widgets on the dashboard (gauge)

HTTP Metrics:
  - finboard_http_requests_total: requests (counter). Labels: method, endpoint, status
  - finboard_http_request_duration_seconds: latency (histogram). Labels: method, endpoint
  - finboard_http_requests_in_flight: active requests (gauge)

Client WebSocket Metrics:
  - finboard_websocket_connections: connected dashboard clients (gauge)
  - finboard_websocket_messages_sent_total: broadcasts (counter). Labels: type
  - finboard_websocket_messages_dropped_total: drops for slow clients (counter)

Explorer Metrics:
  - finboard_explorer_probes_total: probes (counter). Labels: result
  - finboard_circuit_breaker_*: per-host breaker state, requests and transitions

# Usage

	start := time.Now()
	v, err := fetcher.Fetch(ctx, url)
	metrics.RecordSourceFetch(connector.Result(err), time.Since(start))
*/
package metrics
