// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

// Package logging provides the zerolog-based structured logger used across
// FinBoard.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//
//	logging.Info().Str("widget_id", id).Msg("Widget added")
//	logging.Error().Err(err).Msg("Layout save failed")
//
//	// With request or widget IDs carried on the context
//	logging.Ctx(ctx).Warn().Msg("Source rate limited")
//
// # Configuration
//
// Level and format come from the logging section of the application
// config (LOG_LEVEL, LOG_FORMAT, LOG_CALLER in the environment).
//
// # Secrets
//
// Source URLs frequently carry API keys in the query string. Log them
// through RedactURL:
//
//	logging.Debug().Str("url", logging.RedactURL(u, cfg.APIKeyParam)).Msg("Polling")
//
// # Suture Integration
//
// The supervisor tree needs an *slog.Logger; NewSlogLogger returns one that
// writes through the global zerolog logger.
package logging
