// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package validation

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/finboard/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return the same non-nil instance")
	}
}

func validWidget() models.Widget {
	return models.Widget{
		ID:   "w1",
		Type: models.WidgetTypeTable,
		Config: models.WidgetSourceConfig{
			RestURL:             "https://api.example.com/v1/prices?limit=10",
			PollIntervalSeconds: 30,
			Fields:              []models.FieldSpec{{ID: "f1", Label: "Price", Path: "price"}},
		},
	}
}

func TestValidateStruct_Widget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(w *models.Widget)
		wantTag string
		field   string
	}{
		{name: "valid rest widget", mutate: func(*models.Widget) {}},
		{
			name: "valid socket widget",
			mutate: func(w *models.Widget) {
				w.Config.RestURL = ""
				w.Config.SocketURL = "wss://stream.example.com/ws"
				w.Config.SocketSubscribeMessage = json.RawMessage(`{"op":"subscribe"}`)
			},
		},
		{name: "no source at all", mutate: func(w *models.Widget) { w.Config.RestURL = "" }},
		{name: "missing id", mutate: func(w *models.Widget) { w.ID = "" }, wantTag: "required", field: "id"},
		{name: "unknown type", mutate: func(w *models.Widget) { w.Type = "gauge" }, wantTag: "widget_type", field: "type"},
		{name: "relative url", mutate: func(w *models.Widget) { w.Config.RestURL = "/v1/prices" }, wantTag: "source_url", field: "apiUrl"},
		{name: "ftp url", mutate: func(w *models.Widget) { w.Config.RestURL = "ftp://example.com/x" }, wantTag: "source_url", field: "apiUrl"},
		{name: "negative interval", mutate: func(w *models.Widget) { w.Config.PollIntervalSeconds = -1 }, wantTag: "gte", field: "refreshInterval"},
		{name: "field without path", mutate: func(w *models.Widget) { w.Config.Fields[0].Path = "" }, wantTag: "required", field: "path"},
		{
			name: "broken subscribe message",
			mutate: func(w *models.Widget) {
				w.Config.SocketURL = "ws://localhost:9000"
				w.Config.SocketSubscribeMessage = json.RawMessage(`{"op":`)
			},
			wantTag: "json",
			field:   "socketSubscribe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := validWidget()
			tt.mutate(&w)
			verr := ValidateStruct(&w)

			if tt.wantTag == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("ValidateStruct() = nil, want %s error", tt.wantTag)
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors (%v), want 1", len(errs), verr)
			}
			if errs[0].Tag() != tt.wantTag || errs[0].Field() != tt.field {
				t.Errorf("error = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.field, tt.wantTag)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	t.Parallel()

	w := validWidget()
	w.Config.RestURL = "not a url"
	apiErr := ValidateStruct(&w).ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Message != "apiUrl must be an absolute http, https, ws or wss URL" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "apiUrl" || apiErr.Details["value"] != "not a url" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	t.Parallel()

	w := models.Widget{Config: models.WidgetSourceConfig{PollIntervalSeconds: 90000}}
	apiErr := ValidateStruct(&w).ToAPIError()

	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Fatalf("Details[fields] = %v, want 3 entries", apiErr.Details["fields"])
	}
	for _, want := range []string{"id: id is required", "type: type is required", "refreshInterval: refreshInterval must be less than or equal to 86400"} {
		if !strings.Contains(apiErr.Message, want) {
			t.Errorf("Message %q missing %q", apiErr.Message, want)
		}
	}
}

func TestToAPIError_Empty(t *testing.T) {
	t.Parallel()

	var ve RequestValidationError
	if ve.Error() != "validation failed" || ve.ToAPIError().Message != "Validation failed" {
		t.Errorf("empty error = %q / %q", ve.Error(), ve.ToAPIError().Message)
	}
}

func TestTranslateMinMax(t *testing.T) {
	t.Parallel()

	type limits struct {
		Name  string `json:"name" validate:"min=3"`
		Count int    `json:"count" validate:"max=5"`
	}
	verr := ValidateStruct(&limits{Name: "ab", Count: 9})
	if verr == nil {
		t.Fatal("expected errors")
	}
	got := verr.Error()
	for _, want := range []string{"name must be at least 3 characters", "count must be at most 5"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}
