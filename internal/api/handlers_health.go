// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/finboard/internal/models"
)

// Health reports overall status with widget and client counts.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := "healthy"
	if h.dashboard == nil {
		status = "degraded"
	}
	respondSuccess(w, http.StatusOK, h.healthStatus(status), 0, start)
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Ready means the dashboard is wired and its widget runtimes are up.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	ready := h.dashboard != nil && h.dashboard.Running()

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: "success",
		Data:   h.healthStatus(status),
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

func (h *Handler) healthStatus(status string) models.HealthStatus {
	hs := models.HealthStatus{
		Status:        status,
		Version:       Version,
		Uptime:        time.Since(h.startTime).Seconds(),
		LastCheckedAt: time.Now(),
	}
	if h.dashboard != nil {
		hs.Widgets = len(h.dashboard.Widgets())
	}
	if h.wsHub != nil {
		hs.HubClients = h.wsHub.GetClientCount()
	}
	return hs
}
