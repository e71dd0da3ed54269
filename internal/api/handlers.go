// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/finboard/internal/config"
	"github.com/tomtom215/finboard/internal/dashboard"
	"github.com/tomtom215/finboard/internal/explorer"
	"github.com/tomtom215/finboard/internal/logging"
	ws "github.com/tomtom215/finboard/internal/websocket"
)

// Version is reported by the health endpoints. Overridden at build time.
var Version = "dev"

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, WebSocket origin checks
//   - handlers_helpers.go: response and decoding helpers
//   - handlers_health.go: health probes
//   - handlers_widgets.go: widget list operations
//   - handlers_layout.go: import, export and templates
//   - handlers_explore.go: explorer probe
//   - handlers_websocket.go: snapshot stream
type Handler struct {
	dashboard *dashboard.Dashboard
	explorer  *explorer.Explorer
	wsHub     *ws.Hub
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a new API handler. explorer and wsHub may be nil; the
// endpoints that need them then answer 503.
//
// Example:
//
//	handler := api.NewHandler(dash, exp, hub, cfg)
//	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Server)))
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(dash *dashboard.Dashboard, exp *explorer.Explorer, wsHub *ws.Hub, cfg *config.Config) *Handler {
	return &Handler{
		dashboard: dash,
		explorer:  exp,
		wsHub:     wsHub,
		config:    cfg,
		startTime: time.Now(),
	}
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin on WebSocket handshakes.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Server.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
	return false
}
