// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

/*
Package websocket pushes widget snapshots to dashboard clients.

The package uses gorilla/websocket with a hub-client architecture. The Hub
implements dashboard.Publisher, so every snapshot a widget runtime produces
and every layout change is broadcast to all connected clients.

	┌───────────┐   PublishSnapshot / PublishLayout
	│ Dashboard │ ─────────────────────────────────┐
	└───────────┘                                  ▼
	                                          ┌─────────┐
	                                          │   Hub   │
	                                          └────┬────┘
	                                  ┌────────────┼────────────┐
	                               Client1      Client2      Client3

Each client has two goroutines:
  - readPump: reads client messages and answers "ping" with "pong"
  - writePump: writes queued messages and sends protocol pings

Message Types:

  - dashboard_state: sent once to a new client with the full widget list
  - widget_snapshot: one widget's latest snapshot
  - layout_changed: the widget list changed (add, remove, reorder, import)
  - ping / pong: application-level keepalive initiated by the client

Slow clients whose send buffer fills up are disconnected rather than
blocking the hub. Snapshots are full state, so a reconnecting client loses
nothing it cannot get from dashboard_state.
*/
package websocket
