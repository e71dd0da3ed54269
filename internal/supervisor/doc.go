// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

/*
Package supervisor runs FinBoard's long-lived services under suture v4.

The tree has three layers, each restarting its own children:

	finboard
	├── data-layer
	│   └── dashboard (widget runtimes, layout persistence)
	├── messaging-layer
	│   └── websocket-hub
	└── api-layer
	    └── http-server

Supervisor events go through sutureslog to the zerolog-backed slog logger
from logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(),
	    supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
	    return err
	}
	tree.AddDataService(dash)
	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout))
	err = tree.Serve(ctx)
*/
package supervisor
