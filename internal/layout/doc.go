// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

// Package layout persists the dashboard's widget list as one opaque JSON
// blob and handles import and export of that blob.
//
// Three backends implement Store: a JSON file (default), an embedded
// BadgerDB, and memory. The blob carries no version and is never migrated;
// an import is accepted as long as it is a JSON array.
package layout
