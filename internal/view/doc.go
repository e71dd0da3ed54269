// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

/*
Package view turns a widget's raw payload into what a client renders.

Tables run filter, stable sort and pagination (PageSize rows) over the
records extracted from the payload. Charts plot the first configured field,
either as one point per array element or, for single-value sources, as a
synthetic lead-in followed by the real value. Cards resolve each field
against the payload as-is.

Everything here is a pure function of (payload, config, view state) so the
widget runtime can recompute the view after every change.
*/
package view
