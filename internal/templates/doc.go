// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

// Package templates holds the built-in dashboard layouts.
//
// Both templates use public endpoints that need no API key. Applying one
// replaces the whole layout; the caller owns that decision.
package templates
