// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package services

import (
	"context"
)

// Hub is satisfied by *websocket.Hub. Declared here so this package does
// not import the websocket package.
type Hub interface {
	RunWithContext(ctx context.Context) error
}

// HubService runs the WebSocket hub that fans widget snapshots out to
// dashboard clients.
type HubService struct {
	hub  Hub
	name string
}

// NewHubService wraps hub.
func NewHubService(hub Hub) *HubService {
	return &HubService{
		hub:  hub,
		name: "websocket-hub",
	}
}

// Serve implements suture.Service. The hub closes its clients when ctx ends.
func (w *HubService) Serve(ctx context.Context) error {
	return w.hub.RunWithContext(ctx)
}

func (w *HubService) String() string {
	return w.name
}
