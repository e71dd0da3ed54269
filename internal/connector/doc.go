// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

/*
Package connector acquires raw JSON for a widget from its configured source.

Two connectors exist:

  - Poller: GETs a REST endpoint immediately and then every refresh
    interval. A 429 response starts a cooldown (60 seconds by default)
    that counts down once per second; polling resumes with a fetch when
    the countdown reaches zero.
  - Streamer: opens a WebSocket, sends the configured subscribe message
    verbatim once open, and forwards each decodable frame. Frames that
    fail to decode are dropped and logged at debug level.

Connectors never touch widget state directly. They report through an
EmitFunc, and the owning runtime stamps each event with the generation of
the connector that produced it so that late events from a replaced
connector can be discarded.

Failures are reported as *SourceError values which match the package
sentinels through errors.Is:

	if errors.Is(err, connector.ErrRateLimited) { ... }
*/
package connector
