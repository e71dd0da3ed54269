// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

// Package explorer probes a REST endpoint once so a client can pick widget
// fields from the response.
//
// A probe fetches the URL (with the API key injected), takes the first
// element of an array response or the object itself, and flattens it into
// dotted paths with suggested labels. Non-empty arrays suggest a table
// widget.
//
// Outbound probes are throttled by a token bucket (golang.org/x/time/rate)
// and guarded by one circuit breaker per upstream host
// (sony/gobreaker/v2). Authentication and rate-limit answers count as
// successes for the breaker: the host responded.
package explorer
