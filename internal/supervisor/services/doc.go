// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

/*
Package services adapts FinBoard components to suture.Service.

  - HTTPServerService: ListenAndServe plus graceful Shutdown on cancel
  - HubService: the WebSocket hub's RunWithContext loop

The dashboard already implements Serve and String, so it is added to the
tree directly.
*/
package services
