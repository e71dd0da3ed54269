// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package models

// ConnectionState is the acquisition state of a single widget.
//
//	idle -> connecting -> live | polling -> error | rate_limited -> idle
type ConnectionState string

const (
	StateIdle        ConnectionState = "idle"
	StateConnecting  ConnectionState = "connecting"
	StateLive        ConnectionState = "live"
	StatePolling     ConnectionState = "polling"
	StateRateLimited ConnectionState = "rate_limited"
	StateError       ConnectionState = "error"
)

// ErrorKind classifies a widget failure so clients can offer the right fix.
type ErrorKind string

const (
	// ErrorKindAuth is a 401/403 from the source. Supplying a key may fix it.
	ErrorKindAuth        ErrorKind = "auth"
	ErrorKindRateLimited ErrorKind = "rate_limited"
	ErrorKindTransport   ErrorKind = "transport"
	ErrorKindDecode      ErrorKind = "decode"
	ErrorKindSocket      ErrorKind = "socket"
)

// WidgetError is the user-facing error attached to a widget snapshot.
type WidgetError struct {
	Kind             ErrorKind `json:"kind"`
	Message          string    `json:"message"`
	StatusCode       int       `json:"status_code,omitempty"`
	NeedsCredentials bool      `json:"needs_credentials"`
}

// SortDirection is the table sort order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ViewState is the per-widget table interaction state.
// An empty SortKey means the records keep their source order.
type ViewState struct {
	SearchQuery   string        `json:"search_query"`
	SortKey       string        `json:"sort_key,omitempty"`
	SortDirection SortDirection `json:"sort_direction"`
	PageIndex     int           `json:"page_index"`
}

// DefaultViewState returns the state a fresh widget starts with.
func DefaultViewState() ViewState {
	return ViewState{SortDirection: SortAsc}
}
