// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

/*
Package models holds the data types shared between the widget pipeline, the
dashboard, and the HTTP API.

  - widget.go: Widget, WidgetSourceConfig and FieldSpec (persisted layout format)
  - state.go: ConnectionState, ErrorKind, WidgetError and ViewState
  - api_responses.go: the JSON envelope returned by every endpoint

The JSON tags on WidgetSourceConfig match the layout files exported by earlier
versions of the dashboard (apiUrl, socketUrl, refreshInterval, ...), so those
files import unchanged.
*/
package models
