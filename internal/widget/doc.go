// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

/*
Package widget runs the data pipeline of a single dashboard widget.

A Runtime owns exactly one connector at a time, the latest raw payload, the
rate-limit cooldown mirror and the table view state. Everything is mutated
on one loop goroutine: control calls (Start, Reconfigure, ManualRefresh,
UpdateViewState) and connector events are messages on the same inbox.

Every connector start bumps a generation counter and the connector's events
are stamped with it. Events from an older generation are dropped, so a
fetch that completes after its connector was replaced has no effect.
Teardown waits for the connector goroutine to exit before a new one starts.

Consumers read immutable Snapshots, either on demand or through Subscribe,
which keeps only the newest snapshot for slow readers:

	rt := widget.New(id, models.WidgetTypeTable, widget.WithSettings(s))
	if err := rt.Start(cfg); err != nil { ... }

	ch, cancel := rt.Subscribe()
	defer cancel()
	for snap := range ch {
		render(snap.DerivedView)
	}
*/
package widget
