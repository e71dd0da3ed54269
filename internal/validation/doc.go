// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps the validator in a thread-safe singleton and translates
// failures into the API's VALIDATION_ERROR format. Field names in messages
// are the JSON names clients send, so a bad widget config reports
// "apiUrl must be a valid URL" rather than the Go field name.
//
// # Custom Tags
//
//   - source_url: an absolute http, https, ws or wss URL
//   - widget_type: card, table or chart
//
// Widget source configs also get a struct-level check: the socket subscribe
// message, when set, must be well-formed JSON.
//
// # Usage
//
//	var w models.Widget
//	if err := json.NewDecoder(r.Body).Decode(&w); err != nil {
//	    // handle decode error
//	}
//	if verr := validation.ValidateStruct(&w); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Thread Safety
//
// The singleton is initialized once on first use and is safe for concurrent
// use; struct metadata is cached by the underlying validator.
package validation
