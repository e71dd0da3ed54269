// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/finboard/internal/logging"
	"github.com/tomtom215/finboard/internal/models"
	"github.com/tomtom215/finboard/internal/view"
)

// updateWidgetRequest is the PUT body. An empty type keeps the current one.
type updateWidgetRequest struct {
	Type   models.WidgetType         `json:"type" validate:"omitempty,widget_type"`
	Config models.WidgetSourceConfig `json:"config"`
}

// reorderRequest moves the widget at From to position To.
type reorderRequest struct {
	From int `json:"from" validate:"gte=0"`
	To   int `json:"to" validate:"gte=0"`
}

// requireDashboard answers 503 when no dashboard is wired.
func (h *Handler) requireDashboard(w http.ResponseWriter) bool {
	if h.dashboard == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Dashboard unavailable", nil)
		return false
	}
	return true
}

// ListWidgets returns every widget in display order with its snapshot.
func (h *Handler) ListWidgets(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	if !h.requireDashboard(w) {
		return
	}

	entries := h.dashboard.List()
	respondSuccess(w, http.StatusOK, entries, len(entries), start)
}

// GetWidget returns one widget's definition and snapshot.
func (h *Handler) GetWidget(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireDashboard(w) {
		return
	}

	entry, err := h.dashboard.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, entry, 0, start)
}

// AddWidget validates and appends a widget. A missing id is generated.
func (h *Handler) AddWidget(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireDashboard(w) {
		return
	}

	var req models.Widget
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	entry, err := h.dashboard.Add(r.Context(), req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	logging.Ctx(r.Context()).Debug().Str("widget_id", req.ID).Msg("Widget added via API")
	respondSuccess(w, http.StatusCreated, entry, 0, start)
}

// UpdateWidget replaces a widget's type and source config.
func (h *Handler) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireDashboard(w) {
		return
	}

	var req updateWidgetRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	entry, err := h.dashboard.Update(r.Context(), chi.URLParam(r, "id"), req.Type, req.Config)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, entry, 0, start)
}

// RemoveWidget deletes a widget and stops its runtime.
func (h *Handler) RemoveWidget(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireDashboard(w) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.dashboard.Remove(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"id": id}, 0, start)
}

// ReorderWidgets moves one widget and returns the new order.
func (h *Handler) ReorderWidgets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireDashboard(w) {
		return
	}

	var req reorderRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	if err := h.dashboard.Reorder(r.Context(), req.From, req.To); err != nil {
		respondDomainError(w, err)
		return
	}

	entries := h.dashboard.List()
	respondSuccess(w, http.StatusOK, entries, len(entries), start)
}

// RefreshWidget triggers a manual refresh. During a rate-limit cooldown
// the snapshot comes back unchanged.
func (h *Handler) RefreshWidget(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireDashboard(w) {
		return
	}

	snap, err := h.dashboard.Refresh(chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, snap, 0, start)
}

// UpdateWidgetView applies a search, sort or paging change.
func (h *Handler) UpdateWidgetView(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireDashboard(w) {
		return
	}

	var patch view.Patch
	if !decodeJSONBody(w, r, &patch) {
		return
	}
	if apiErr := validateRequest(&patch); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	if patch.IsEmpty() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "View patch is empty", nil)
		return
	}

	snap, err := h.dashboard.UpdateView(chi.URLParam(r, "id"), patch)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, snap, 0, start)
}
