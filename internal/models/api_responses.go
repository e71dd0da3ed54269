// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package models

import (
	"time"
)

// APIResponse is the envelope used by every HTTP endpoint.
//
// Status is "success" or "error". Error is only set for failures.
//
//	{
//	  "status": "success",
//	  "data": [{"widget": {...}, "snapshot": {...}}],
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response bookkeeping.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Count       int       `json:"count,omitempty"`
}

// APIError is the machine-readable failure description.
//
// Code values used by the API:
//   - VALIDATION_ERROR: request body failed validation
//   - INVALID_JSON: request body is not JSON
//   - NOT_FOUND: unknown widget or template
//   - LAYOUT_ERROR: layout import/persist failure
//   - UPSTREAM_ERROR: explorer probe failed against the data source
//   - SERVICE_UNAVAILABLE: a dependency is not wired
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the health endpoints.
type HealthStatus struct {
	Status        string    `json:"status"`
	Version       string    `json:"version"`
	Widgets       int       `json:"widgets"`
	HubClients    int       `json:"hub_clients"`
	Uptime        float64   `json:"uptime_seconds"`
	LastCheckedAt time.Time `json:"last_checked_at"`
}
