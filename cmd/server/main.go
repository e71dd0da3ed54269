// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tomtom215/finboard/internal/api"
	"github.com/tomtom215/finboard/internal/config"
	"github.com/tomtom215/finboard/internal/connector"
	"github.com/tomtom215/finboard/internal/dashboard"
	"github.com/tomtom215/finboard/internal/explorer"
	"github.com/tomtom215/finboard/internal/layout"
	"github.com/tomtom215/finboard/internal/logging"
	"github.com/tomtom215/finboard/internal/metrics"
	"github.com/tomtom215/finboard/internal/supervisor"
	"github.com/tomtom215/finboard/internal/supervisor/services"
	"github.com/tomtom215/finboard/internal/widget"
	ws "github.com/tomtom215/finboard/internal/websocket"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("FinBoard exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		// Logger still has its defaults here.
		return err
	}
	logging.Init(cfg.LoggingOptions())

	logging.Info().
		Str("version", api.Version).
		Str("addr", cfg.Server.Addr()).
		Str("layout_backend", cfg.Layout.Backend).
		Str("environment", cfg.Server.Environment).
		Msg("Starting FinBoard")
	metrics.AppInfo.WithLabelValues(api.Version, runtime.Version()).Set(1)

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS_ORIGINS=* in production: any website can read the dashboard API and open WebSocket streams")
	}
	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	store, err := layout.Open(cfg.Layout.Backend, cfg.Layout.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing layout store")
		}
	}()

	fetcher := connector.NewFetcher(
		&http.Client{Timeout: cfg.Connector.HTTPTimeout},
		connector.WithMaxBodyBytes(cfg.Connector.MaxBodyBytes),
		connector.WithUserAgent(cfg.Connector.UserAgent),
	)

	hub := ws.NewHub()
	dash := dashboard.New(store,
		dashboard.WithPublisher(hub),
		dashboard.WithSeedTemplate(cfg.Layout.SeedTemplate),
		dashboard.WithRuntimeOptions(widget.WithSettings(widget.Settings{
			Fetcher:          fetcher,
			CooldownSeconds:  cfg.Connector.CooldownSeconds,
			HandshakeTimeout: cfg.Connector.HandshakeTimeout,
			MaxMessageBytes:  cfg.Connector.MaxMessageBytes,
		})),
	)
	hub.SetStateFunc(func() interface{} { return dash.List() })

	exp := explorer.New(fetcher, explorer.Config{
		RatePerSecond:   cfg.Explorer.RatePerSecond,
		Burst:           cfg.Explorer.Burst,
		BreakerFailures: cfg.Explorer.BreakerFailures,
		BreakerTimeout:  cfg.Explorer.BreakerTimeout,
	})

	handler := api.NewHandler(dash, exp, hub, cfg)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Server)))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
		return err
	}
	tree.AddDataService(dash)
	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.Info().Msg("FinBoard stopped")
	return nil
}
