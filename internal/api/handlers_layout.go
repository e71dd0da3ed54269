// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/finboard/internal/logging"
	"github.com/tomtom215/finboard/internal/templates"
)

// exportFilename is the download name offered for layout exports.
const exportFilename = "finboard-config.json"

// ExportLayout downloads the widget list as indented JSON. The body is the
// bare array, not the API envelope, so it can be imported again as is.
func (h *Handler) ExportLayout(w http.ResponseWriter, _ *http.Request) {
	if !h.requireDashboard(w) {
		return
	}

	data, err := h.dashboard.Export()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "LAYOUT_ERROR", "Failed to export layout", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write layout export")
	}
}

// ImportLayout replaces the layout. The body must be a JSON array.
func (h *Handler) ImportLayout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireDashboard(w) {
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	entries, err := h.dashboard.Import(r.Context(), body)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int("widgets", len(entries)).Msg("Layout imported")
	respondSuccess(w, http.StatusOK, entries, len(entries), start)
}

// ListTemplates returns the template catalog.
func (h *Handler) ListTemplates(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	list := templates.List()
	respondSuccess(w, http.StatusOK, list, len(list), start)
}

// ApplyTemplate replaces the layout with a catalog template.
func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireDashboard(w) {
		return
	}

	entries, err := h.dashboard.ApplyTemplate(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, entries, len(entries), start)
}
