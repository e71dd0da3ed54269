// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

// Package records normalizes a raw widget payload into an ordered list of
// candidate records for table and chart views.
package records

import (
	"github.com/tomtom215/finboard/internal/jsonvalue"
)

// Extract turns a payload into rows:
//
//  1. an array payload is the row list as-is;
//  2. otherwise a non-empty rootPath is resolved, and only an array result
//     yields rows;
//  3. otherwise a present payload becomes a single row.
//
// Anything else yields an empty, non-nil list.
func Extract(raw jsonvalue.Value, rootPath string) []jsonvalue.Value {
	if raw.IsArray() {
		return raw.Items()
	}

	if rootPath != "" {
		nested := jsonvalue.Resolve(raw, rootPath)
		if nested.IsArray() {
			return nested.Items()
		}
		return []jsonvalue.Value{}
	}

	if !raw.IsPresent() {
		return []jsonvalue.Value{}
	}
	return []jsonvalue.Value{raw}
}
