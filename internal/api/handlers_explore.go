// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/finboard/internal/explorer"
)

// Explore probes a REST endpoint so the caller can pick fields for a new
// widget.
func (h *Handler) Explore(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.explorer == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Explorer unavailable", nil)
		return
	}

	var req explorer.Request
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	result, err := h.explorer.Probe(r.Context(), req)
	if err != nil {
		respondExploreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, result, len(result.Fields), start)
}

func respondExploreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, explorer.ErrInvalidAPIKey):
		respondError(w, http.StatusUnauthorized, "INVALID_API_KEY", "Invalid API Key", nil)
	case errors.Is(err, explorer.ErrInvalidURL):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "URL must be an absolute http or https URL", nil)
	case errors.Is(err, explorer.ErrThrottled):
		respondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many explore requests", nil)
	case errors.Is(err, explorer.ErrCircuitOpen):
		respondError(w, http.StatusServiceUnavailable, "UPSTREAM_ERROR", "Upstream temporarily unavailable", nil)
	case errors.Is(err, context.Canceled):
		respondError(w, http.StatusBadRequest, "UPSTREAM_ERROR", "Request canceled", nil)
	default:
		respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to fetch data: "+err.Error(), nil)
	}
}
