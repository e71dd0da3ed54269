// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

/*
Package api serves the FinBoard HTTP API on a chi router.

Every JSON endpoint answers with the models.APIResponse envelope:

	{"status": "success", "data": ..., "metadata": {"timestamp": "..."}}
	{"status": "error", "data": null, "metadata": {...}, "error": {"code": "NOT_FOUND", "message": "Widget not found"}}

The one exception is GET /api/v1/layout/export, which returns the bare
widget array as a file download.

Routes (all under /api/v1):

	GET    /health, /health/live, /health/ready
	GET    /widgets                  ordered list with snapshots
	POST   /widgets                  add (id generated when missing)
	POST   /widgets/reorder          {"from": 0, "to": 2}
	GET    /widgets/{id}
	PUT    /widgets/{id}             {"type": "table", "config": {...}}
	DELETE /widgets/{id}
	POST   /widgets/{id}/refresh
	PATCH  /widgets/{id}/view        {"search": "btc"} | {"toggle_sort": "price"} | {"step": 1}
	GET    /layout/export
	POST   /layout/import            body must be a JSON array
	GET    /templates
	POST   /templates/{name}/apply
	POST   /explore                  {"url": "...", "apiKey": "...", "apiKeyParam": "..."}
	GET    /ws                       widget_snapshot, layout_changed, ping/pong

Prometheus metrics are served at /metrics.

Error mapping:

  - dashboard.ErrWidgetNotFound, templates.ErrUnknownTemplate: 404
  - dashboard.ErrDuplicateID: 409
  - dashboard.ErrIndexOutOfRange, layout.ErrNotArray, validation: 400
  - explorer.ErrInvalidAPIKey: 401 "Invalid API Key"
  - explorer.ErrThrottled and the httprate limiters: 429
  - explorer.ErrCircuitOpen, dashboard.ErrNotRunning: 503
  - other explorer failures: 502
*/
package api
