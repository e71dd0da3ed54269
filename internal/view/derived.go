// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package view

import (
	"github.com/tomtom215/finboard/internal/jsonvalue"
	"github.com/tomtom215/finboard/internal/models"
	"github.com/tomtom215/finboard/internal/records"
)

// Derived is the render-ready view of one widget. Exactly one of Table,
// Chart and Card is set, matching Type.
type Derived struct {
	Type  models.WidgetType `json:"type"`
	Table *Table            `json:"table,omitempty"`
	Chart *Chart            `json:"chart,omitempty"`
	Card  *Card             `json:"card,omitempty"`
}

// Build computes the derived view for a widget type.
func Build(widgetType models.WidgetType, raw jsonvalue.Value, cfg *models.WidgetSourceConfig, state models.ViewState, rnd RandSource) Derived {
	d := Derived{Type: widgetType}

	switch widgetType {
	case models.WidgetTypeTable:
		t := BuildTable(records.Extract(raw, cfg.RootPath), cfg.Fields, state)
		d.Table = &t
	case models.WidgetTypeChart:
		c := BuildChart(raw, cfg, rnd)
		d.Chart = &c
	default:
		c := BuildCard(raw, cfg.Fields)
		d.Card = &c
	}

	return d
}

// TablePageCount returns how many pages the table for this payload and
// state would have. Widget runtimes use it to bound page steps.
func TablePageCount(raw jsonvalue.Value, cfg *models.WidgetSourceConfig, state models.ViewState) int {
	recs := Filter(records.Extract(raw, cfg.RootPath), cfg.Fields, state.SearchQuery)
	return PageCount(len(recs))
}
