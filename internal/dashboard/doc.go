// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

// Package dashboard owns the ordered widget list and one widget.Runtime per
// widget.
//
// Every list change (add, update, remove, reorder, replace) is persisted to
// a layout.Store as one blob and announced to the Publisher. Snapshots from
// each runtime are forwarded to the Publisher as they are produced.
//
// Runtimes only exist between Start and Stop. List operations work at any
// time; while stopped they change and persist the list, and snapshots
// report the widget as idle.
package dashboard
