// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Source Metrics
	SourceFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finboard_source_fetches_total",
			Help: "Total number of REST source fetches by result",
		},
		[]string{"result"}, // success, auth, rate_limited, transport, decode
	)

	SourceFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "finboard_source_fetch_duration_seconds",
			Help:    "Duration of REST source fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SourceRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "finboard_source_rate_limit_hits_total",
			Help: "Total number of 429 responses that started a cooldown",
		},
	)

	SocketFramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finboard_socket_frames_total",
			Help: "Total number of frames received from source sockets",
		},
		[]string{"result"}, // decoded, dropped
	)

	SocketConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "finboard_socket_connections_active",
			Help: "Current number of open source sockets",
		},
	)

	// Widget Runtime Metrics
	WidgetRuntimesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "finboard_widget_runtimes_active",
			Help: "Current number of running widget runtimes",
		},
	)

	ConnectorRestarts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finboard_connector_restarts_total",
			Help: "Total number of connector teardowns followed by a new connector",
		},
		[]string{"reason"}, // config, refresh
	)

	StaleEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "finboard_stale_events_dropped_total",
			Help: "Total number of connector events discarded because a newer connector replaced the sender",
		},
	)

	// Layout Metrics
	LayoutSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finboard_layout_saves_total",
			Help: "Total number of layout persistence writes",
		},
		[]string{"backend", "result"},
	)

	LayoutWidgets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "finboard_layout_widgets",
			Help: "Current number of widgets on the dashboard",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finboard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "finboard_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// Client WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "finboard_websocket_connections",
			Help: "Current number of connected dashboard clients",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finboard_websocket_messages_sent_total",
			Help: "Total number of messages broadcast to dashboard clients",
		},
		[]string{"type"},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "finboard_websocket_messages_dropped_total",
			Help: "Total number of messages dropped for slow clients",
		},
	)

	// Explorer Metrics
	ExplorerProbes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finboard_explorer_probes_total",
			Help: "Total number of explorer probes by result",
		},
		[]string{"result"}, // success, rejected, throttled, error
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "finboard_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finboard_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finboard_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "finboard_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordSourceFetch records one REST fetch.
func RecordSourceFetch(result string, duration time.Duration) {
	SourceFetchesTotal.WithLabelValues(result).Inc()
	SourceFetchDuration.Observe(duration.Seconds())
}

// RecordRateLimitHit records a 429 that started a cooldown.
func RecordRateLimitHit() {
	SourceRateLimitHits.Inc()
}

// RecordSocketFrame records a received source frame.
func RecordSocketFrame(decoded bool) {
	if decoded {
		SocketFramesTotal.WithLabelValues("decoded").Inc()
		return
	}
	SocketFramesTotal.WithLabelValues("dropped").Inc()
}

// RecordConnectorRestart records a connector replacement.
func RecordConnectorRestart(reason string) {
	ConnectorRestarts.WithLabelValues(reason).Inc()
}

// RecordLayoutSave records a layout write against a backend.
func RecordLayoutSave(backend string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	LayoutSaves.WithLabelValues(backend, result).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordExplorerProbe records an explorer probe outcome.
func RecordExplorerProbe(result string) {
	ExplorerProbes.WithLabelValues(result).Inc()
}

// RecordBroadcast records a hub broadcast of the given message type.
func RecordBroadcast(msgType string) {
	WSMessagesSent.WithLabelValues(msgType).Inc()
}

// StatusLabel formats an HTTP status code as a metric label.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}
