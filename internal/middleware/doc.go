// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

/*
Package middleware provides HTTP middleware for the FinBoard API.

Key Components:

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge per chi route
  - Compression: gzip for clients that accept it (WebSocket upgrades skipped)

All three use the http.HandlerFunc -> http.HandlerFunc shape; the api
package adapts them to chi's r.Use.

Usage:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(chiMiddleware(middleware.PrometheusMetrics))
	    r.Use(chiMiddleware(middleware.Compression))
	    ...
	})

PrometheusMetrics forwards Hijack so the WebSocket route can sit behind it.
*/
package middleware
