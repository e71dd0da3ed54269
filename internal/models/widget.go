// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package models

import (
	"bytes"

	"github.com/goccy/go-json"
)

// WidgetType selects how a widget renders its data.
type WidgetType string

const (
	WidgetTypeCard  WidgetType = "card"
	WidgetTypeTable WidgetType = "table"
	WidgetTypeChart WidgetType = "chart"
)

// Valid reports whether t is one of the known widget types.
func (t WidgetType) Valid() bool {
	switch t {
	case WidgetTypeCard, WidgetTypeTable, WidgetTypeChart:
		return true
	default:
		return false
	}
}

// FieldSpec selects one value out of a record by dotted path.
type FieldSpec struct {
	ID    string `json:"id" validate:"required,max=128"`
	Label string `json:"label" validate:"max=256"`
	Path  string `json:"path" validate:"required,max=512"`
}

// WidgetSourceConfig describes where a widget's data comes from and which
// fields it shows. JSON names follow the persisted layout format.
//
// Exactly one of RestURL and SocketURL is expected to be set. When both are
// present the socket wins.
type WidgetSourceConfig struct {
	Label                  string          `json:"label,omitempty" validate:"max=256"`
	RestURL                string          `json:"apiUrl,omitempty" validate:"omitempty,source_url"`
	SocketURL              string          `json:"socketUrl,omitempty" validate:"omitempty,source_url"`
	SocketSubscribeMessage json.RawMessage `json:"socketSubscribe,omitempty"`
	APIKey                 string          `json:"apiKey,omitempty"`
	APIKeyParamName        string          `json:"apiKeyParam,omitempty" validate:"max=128"`
	PollIntervalSeconds    int             `json:"refreshInterval" validate:"gte=0,lte=86400"`
	RootPath               string          `json:"rootPath,omitempty" validate:"max=512"`
	Fields                 []FieldSpec     `json:"fields" validate:"dive"`
}

// UsesSocket reports whether the widget streams over WebSocket.
func (c *WidgetSourceConfig) UsesSocket() bool {
	return c.SocketURL != ""
}

// HasSource reports whether any data source is configured.
func (c *WidgetSourceConfig) HasSource() bool {
	return c.SocketURL != "" || c.RestURL != ""
}

// IsUnsetMessage reports whether a raw subscribe message is empty or a
// JSON null.
func IsUnsetMessage(msg json.RawMessage) bool {
	trimmed := bytes.TrimSpace(msg)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Clone returns a deep copy so callers cannot mutate a running widget's
// config. A null subscribe message is dropped.
func (c WidgetSourceConfig) Clone() WidgetSourceConfig {
	out := c
	out.SocketSubscribeMessage = nil
	if !IsUnsetMessage(c.SocketSubscribeMessage) {
		out.SocketSubscribeMessage = append(json.RawMessage(nil), c.SocketSubscribeMessage...)
	}
	if c.Fields != nil {
		out.Fields = append([]FieldSpec(nil), c.Fields...)
	}
	return out
}

// Widget is one entry of the persisted dashboard layout.
type Widget struct {
	ID     string             `json:"id" validate:"required,max=128"`
	Type   WidgetType         `json:"type" validate:"required,widget_type"`
	Config WidgetSourceConfig `json:"config"`
}

// Clone returns a deep copy of the widget.
func (w Widget) Clone() Widget {
	w.Config = w.Config.Clone()
	return w
}
