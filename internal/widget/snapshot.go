// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package widget

import (
	"time"

	"github.com/tomtom215/finboard/internal/jsonvalue"
	"github.com/tomtom215/finboard/internal/models"
	"github.com/tomtom215/finboard/internal/view"
)

// Snapshot is an immutable copy of a widget's runtime state. Consumers must
// not modify the values it references.
type Snapshot struct {
	WidgetID                 string                 `json:"widget_id"`
	Type                     models.WidgetType      `json:"type"`
	ConnectionState          models.ConnectionState `json:"connection_state"`
	IsLive                   bool                   `json:"is_live"`
	Loading                  bool                   `json:"loading"`
	CooldownSecondsRemaining int                    `json:"cooldown_seconds_remaining"`
	LastError                *models.WidgetError    `json:"last_error,omitempty"`
	RawPayload               jsonvalue.Value        `json:"raw_payload"`
	ViewState                models.ViewState       `json:"view_state"`
	DerivedView              view.Derived           `json:"derived_view"`
	Version                  uint64                 `json:"version"`
	UpdatedAt                time.Time              `json:"updated_at"`
}

// HasPayload reports whether any data has arrived since the last restart.
func (s *Snapshot) HasPayload() bool {
	return s.RawPayload.IsPresent()
}
