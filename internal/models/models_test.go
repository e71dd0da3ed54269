// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package models

import (
	"testing"

	"github.com/goccy/go-json"
)

const layoutEntry = `{
  "id": "w1",
  "type": "table",
  "config": {
    "label": "Markets",
    "apiUrl": "https://api.coingecko.com/api/v3/coins/markets?vs_currency=usd",
    "apiKey": "k",
    "apiKeyParam": "x_cg_demo_api_key",
    "refreshInterval": 60,
    "rootPath": "data.items",
    "socketSubscribe": {"method":"SUBSCRIBE","params":["btcusdt@trade"],"id":1},
    "fields": [{"id":"f1","label":"Name","path":"name"}]
  }
}`

func TestWidget_DecodesLayoutFormat(t *testing.T) {
	t.Parallel()

	var w Widget
	if err := json.Unmarshal([]byte(layoutEntry), &w); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	if w.ID != "w1" || w.Type != WidgetTypeTable {
		t.Errorf("id/type = %q/%q, want w1/table", w.ID, w.Type)
	}
	if w.Config.RestURL == "" || w.Config.APIKeyParamName != "x_cg_demo_api_key" {
		t.Errorf("unexpected source config: %+v", w.Config)
	}
	if w.Config.PollIntervalSeconds != 60 {
		t.Errorf("PollIntervalSeconds = %d, want 60", w.Config.PollIntervalSeconds)
	}
	if w.Config.RootPath != "data.items" {
		t.Errorf("RootPath = %q, want data.items", w.Config.RootPath)
	}
	if len(w.Config.Fields) != 1 || w.Config.Fields[0].Path != "name" {
		t.Errorf("Fields = %+v", w.Config.Fields)
	}
	if len(w.Config.SocketSubscribeMessage) == 0 {
		t.Error("socketSubscribe should be kept as raw JSON")
	}
}

func TestWidgetSourceConfig_Clone(t *testing.T) {
	t.Parallel()

	orig := WidgetSourceConfig{
		SocketURL:              "wss://stream.example.com/ws",
		SocketSubscribeMessage: json.RawMessage(`{"op":"sub"}`),
		Fields:                 []FieldSpec{{ID: "p", Label: "Price", Path: "p"}},
	}
	clone := orig.Clone()
	clone.Fields[0].Path = "changed"
	clone.SocketSubscribeMessage[0] = '['

	if orig.Fields[0].Path != "p" {
		t.Error("Clone shares Fields with the original")
	}
	if string(orig.SocketSubscribeMessage) != `{"op":"sub"}` {
		t.Error("Clone shares SocketSubscribeMessage with the original")
	}
}

func TestWidgetSourceConfig_NullSubscribeIsUnset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"null", `{"socketUrl":"wss://stream.example.com/ws","socketSubscribe":null}`},
		{"padded null", `{"socketUrl":"wss://stream.example.com/ws","socketSubscribe":  null }`},
		{"missing", `{"socketUrl":"wss://stream.example.com/ws"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var cfg WidgetSourceConfig
			if err := json.Unmarshal([]byte(tt.raw), &cfg); err != nil {
				t.Fatal(err)
			}
			if !IsUnsetMessage(cfg.SocketSubscribeMessage) {
				t.Errorf("IsUnsetMessage(%q) = false", cfg.SocketSubscribeMessage)
			}
			if got := cfg.Clone().SocketSubscribeMessage; got != nil {
				t.Errorf("Clone().SocketSubscribeMessage = %q, want nil", got)
			}
		})
	}

	if IsUnsetMessage(json.RawMessage(`{"op":"sub"}`)) {
		t.Error("IsUnsetMessage() = true for an object")
	}
}

func TestWidgetSourceConfig_SourceSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cfg        WidgetSourceConfig
		usesSocket bool
		hasSource  bool
	}{
		{"rest only", WidgetSourceConfig{RestURL: "http://a"}, false, true},
		{"socket only", WidgetSourceConfig{SocketURL: "ws://a"}, true, true},
		{"both prefers socket", WidgetSourceConfig{RestURL: "http://a", SocketURL: "ws://a"}, true, true},
		{"none", WidgetSourceConfig{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.cfg.UsesSocket(); got != tt.usesSocket {
				t.Errorf("UsesSocket() = %v, want %v", got, tt.usesSocket)
			}
			if got := tt.cfg.HasSource(); got != tt.hasSource {
				t.Errorf("HasSource() = %v, want %v", got, tt.hasSource)
			}
		})
	}
}

func TestWidgetType_Valid(t *testing.T) {
	t.Parallel()

	for _, typ := range []WidgetType{WidgetTypeCard, WidgetTypeTable, WidgetTypeChart} {
		if !typ.Valid() {
			t.Errorf("%q should be valid", typ)
		}
	}
	if WidgetType("gauge").Valid() {
		t.Error("gauge should not be valid")
	}
}
