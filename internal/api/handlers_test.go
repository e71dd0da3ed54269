// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/finboard/internal/config"
	"github.com/tomtom215/finboard/internal/connector"
	"github.com/tomtom215/finboard/internal/dashboard"
	"github.com/tomtom215/finboard/internal/jsonvalue"
	"github.com/tomtom215/finboard/internal/layout"
	"github.com/tomtom215/finboard/internal/models"
	"github.com/tomtom215/finboard/internal/widget"
)

// priceConnector emits a fixed record list once and waits.
type priceConnector struct{}

func (priceConnector) Run(ctx context.Context, emit connector.EmitFunc) error {
	emit(connector.Event{
		Kind:  connector.EventPayload,
		State: models.StateIdle,
		Payload: jsonvalue.Array(
			jsonvalue.Object(map[string]jsonvalue.Value{"name": jsonvalue.String("Bitcoin"), "price": jsonvalue.Number(65000)}),
			jsonvalue.Object(map[string]jsonvalue.Value{"name": jsonvalue.String("Ether"), "price": jsonvalue.Number(3200)}),
		),
	})
	<-ctx.Done()
	return nil
}

func (priceConnector) String() string { return "price" }

func priceFactory(string, *models.WidgetSourceConfig, int) connector.Connector {
	return priceConnector{}
}

// envelope mirrors models.APIResponse with a raw data field.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

// entryJSON is the subset of dashboard.Entry the tests inspect.
type entryJSON struct {
	Widget   models.Widget `json:"widget"`
	Snapshot snapshotJSON  `json:"snapshot"`
}

type snapshotJSON struct {
	WidgetID  string           `json:"widget_id"`
	ViewState models.ViewState `json:"view_state"`
}

type testEnv struct {
	server *httptest.Server
	dash   *dashboard.Dashboard
	store  *layout.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := layout.NewMemoryStore()
	dash := dashboard.New(store, dashboard.WithRuntimeOptions(widget.WithFactory(priceFactory)))

	ctx, cancel := context.WithCancel(context.Background())
	if err := dash.Start(ctx); err != nil {
		t.Fatalf("dashboard start: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		_ = dash.Stop()
	})

	cfg := &config.Config{Server: config.ServerConfig{CORSOrigins: []string{"https://dash.example.com"}, RateLimitDisabled: true}}
	handler := NewHandler(dash, nil, nil, cfg)
	router := NewRouter(handler, NewChiMiddleware(NewChiMiddlewareConfig(cfg.Server)))

	srv := httptest.NewServer(router.SetupChi())
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, dash: dash, store: store}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	return resp, env
}

func checkStatus(t *testing.T, resp *http.Response, env envelope, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d (error: %+v)", resp.StatusCode, want, env.Error)
	}
}

func checkErrorCode(t *testing.T, env envelope, want string) {
	t.Helper()
	if env.Status != "error" || env.Error == nil || env.Error.Code != want {
		t.Fatalf("error = %+v, want code %s", env.Error, want)
	}
}

const cardWidget = `{"id":"btc","type":"card","config":{"apiUrl":"https://api.example.com/btc","refreshInterval":30,"fields":[{"id":"f1","label":"Price","path":"price"}]}}`

func TestWidgets_AddListGet(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/widgets", cardWidget)
	checkStatus(t, resp, body, http.StatusCreated)

	var entry entryJSON
	if err := json.Unmarshal(body.Data, &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Widget.ID != "btc" || entry.Snapshot.WidgetID != "btc" {
		t.Errorf("entry = %+v", entry)
	}

	resp, body = env.do(t, http.MethodGet, "/api/v1/widgets", "")
	checkStatus(t, resp, body, http.StatusOK)
	if body.Metadata.Count != 1 {
		t.Errorf("metadata.count = %d, want 1", body.Metadata.Count)
	}

	resp, body = env.do(t, http.MethodGet, "/api/v1/widgets/btc", "")
	checkStatus(t, resp, body, http.StatusOK)

	resp, body = env.do(t, http.MethodGet, "/api/v1/widgets/nope", "")
	checkStatus(t, resp, body, http.StatusNotFound)
	checkErrorCode(t, body, "NOT_FOUND")
}

func TestWidgets_AddGeneratesID(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/widgets", `{"type":"table","config":{"fields":[]}}`)
	checkStatus(t, resp, body, http.StatusCreated)

	var entry entryJSON
	if err := json.Unmarshal(body.Data, &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Widget.ID == "" {
		t.Error("widget id should be generated")
	}
}

func TestWidgets_AddErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{"id":`, http.StatusBadRequest, "INVALID_JSON"},
		{"unknown type", `{"id":"x","type":"gauge","config":{}}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing type", `{"id":"x","config":{}}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad url scheme", `{"id":"x","type":"card","config":{"apiUrl":"ftp://example.com"}}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"negative interval", `{"id":"x","type":"card","config":{"refreshInterval":-1}}`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)

			resp, body := env.do(t, http.MethodPost, "/api/v1/widgets", tt.body)
			checkStatus(t, resp, body, tt.wantStatus)
			checkErrorCode(t, body, tt.wantCode)
		})
	}
}

func TestWidgets_DuplicateIDConflicts(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/v1/widgets", cardWidget)
	resp, body := env.do(t, http.MethodPost, "/api/v1/widgets", cardWidget)
	checkStatus(t, resp, body, http.StatusConflict)
	checkErrorCode(t, body, "CONFLICT")
}

func TestWidgets_UpdateAndRemove(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/widgets", cardWidget)

	resp, body := env.do(t, http.MethodPut, "/api/v1/widgets/btc", `{"type":"table","config":{"apiUrl":"https://api.example.com/coins","fields":[]}}`)
	checkStatus(t, resp, body, http.StatusOK)

	var entry entryJSON
	if err := json.Unmarshal(body.Data, &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Widget.Type != models.WidgetTypeTable || entry.Widget.Config.RestURL != "https://api.example.com/coins" {
		t.Errorf("updated widget = %+v", entry.Widget)
	}

	resp, body = env.do(t, http.MethodPut, "/api/v1/widgets/missing", `{"config":{}}`)
	checkStatus(t, resp, body, http.StatusNotFound)

	resp, body = env.do(t, http.MethodDelete, "/api/v1/widgets/btc", "")
	checkStatus(t, resp, body, http.StatusOK)

	if got := len(env.dash.Widgets()); got != 0 {
		t.Errorf("widgets after delete = %d, want 0", got)
	}

	resp, body = env.do(t, http.MethodDelete, "/api/v1/widgets/btc", "")
	checkStatus(t, resp, body, http.StatusNotFound)
}

func TestWidgets_Reorder(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	for _, id := range []string{"a", "b", "c"} {
		env.do(t, http.MethodPost, "/api/v1/widgets", `{"id":"`+id+`","type":"card","config":{}}`)
	}

	resp, body := env.do(t, http.MethodPost, "/api/v1/widgets/reorder", `{"from":0,"to":2}`)
	checkStatus(t, resp, body, http.StatusOK)

	var ids []string
	for _, w := range env.dash.Widgets() {
		ids = append(ids, w.ID)
	}
	if strings.Join(ids, ",") != "b,c,a" {
		t.Errorf("order = %v, want b,c,a", ids)
	}

	resp, body = env.do(t, http.MethodPost, "/api/v1/widgets/reorder", `{"from":0,"to":9}`)
	checkStatus(t, resp, body, http.StatusBadRequest)

	resp, body = env.do(t, http.MethodPost, "/api/v1/widgets/reorder", `{"from":-1,"to":0}`)
	checkStatus(t, resp, body, http.StatusBadRequest)
	checkErrorCode(t, body, "VALIDATION_ERROR")
}

func TestWidgets_RefreshAndView(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/widgets", `{"id":"coins","type":"table","config":{"fields":[{"id":"n","label":"Name","path":"name"}]}}`)

	resp, body := env.do(t, http.MethodPost, "/api/v1/widgets/coins/refresh", "")
	checkStatus(t, resp, body, http.StatusOK)

	resp, body = env.do(t, http.MethodPatch, "/api/v1/widgets/coins/view", `{"search":"bit"}`)
	checkStatus(t, resp, body, http.StatusOK)

	var snap snapshotJSON
	if err := json.Unmarshal(body.Data, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.ViewState.SearchQuery != "bit" || snap.ViewState.PageIndex != 0 {
		t.Errorf("view state = %+v", snap.ViewState)
	}

	resp, body = env.do(t, http.MethodPatch, "/api/v1/widgets/coins/view", `{}`)
	checkStatus(t, resp, body, http.StatusBadRequest)

	resp, body = env.do(t, http.MethodPatch, "/api/v1/widgets/coins/view", `{"step":5}`)
	checkStatus(t, resp, body, http.StatusBadRequest)
	checkErrorCode(t, body, "VALIDATION_ERROR")

	resp, body = env.do(t, http.MethodPost, "/api/v1/widgets/ghost/refresh", "")
	checkStatus(t, resp, body, http.StatusNotFound)
}

func TestLayout_ExportImport(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/widgets", cardWidget)

	resp, err := env.server.Client().Get(env.server.URL + "/api/v1/layout/export")
	if err != nil {
		t.Fatal(err)
	}
	var exported bytes.Buffer
	_, _ = exported.ReadFrom(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "finboard-config.json") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(exported.String(), "[\n  {") {
		t.Errorf("export is not an indented array:\n%s", exported.String())
	}

	resp2, body := env.do(t, http.MethodPost, "/api/v1/layout/import", `{"not":"an array"}`)
	checkStatus(t, resp2, body, http.StatusBadRequest)
	checkErrorCode(t, body, "LAYOUT_ERROR")

	resp2, body = env.do(t, http.MethodPost, "/api/v1/layout/import", `[{"id":"x","type":"chart","config":{"fields":[]}}]`)
	checkStatus(t, resp2, body, http.StatusOK)
	if ws := env.dash.Widgets(); len(ws) != 1 || ws[0].ID != "x" {
		t.Errorf("widgets after import = %+v", ws)
	}

	resp2, body = env.do(t, http.MethodPost, "/api/v1/layout/import", exported.String())
	checkStatus(t, resp2, body, http.StatusOK)
	if ws := env.dash.Widgets(); len(ws) != 1 || ws[0].ID != "btc" {
		t.Errorf("widgets after re-import = %+v", ws)
	}
}

func TestTemplates_ListAndApply(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/templates", "")
	checkStatus(t, resp, body, http.StatusOK)
	if body.Metadata.Count != 2 {
		t.Errorf("template count = %d, want 2", body.Metadata.Count)
	}

	resp, body = env.do(t, http.MethodPost, "/api/v1/templates/market-overview/apply", "")
	checkStatus(t, resp, body, http.StatusOK)
	if got := len(env.dash.Widgets()); got != 2 {
		t.Errorf("widgets after apply = %d, want 2", got)
	}

	resp, body = env.do(t, http.MethodPost, "/api/v1/templates/nope/apply", "")
	checkStatus(t, resp, body, http.StatusNotFound)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	for _, path := range []string{"/api/v1/health", "/api/v1/health/live", "/api/v1/health/ready"} {
		resp, body := env.do(t, http.MethodGet, path, "")
		checkStatus(t, resp, body, http.StatusOK)
	}
}

func TestHealthReady_NotRunning(t *testing.T) {
	t.Parallel()

	dash := dashboard.New(layout.NewMemoryStore())
	handler := NewHandler(dash, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/nothing-here", "")
	checkStatus(t, resp, body, http.StatusNotFound)
	checkErrorCode(t, body, "NOT_FOUND")
}

func TestResponseHeaders(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/widgets", "")
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
	if resp.Header.Get("ETag") == "" {
		t.Error("missing ETag")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, err := env.server.Client().Get(env.server.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "finboard_") {
		t.Error("metrics output has no finboard_ series")
	}
}

func TestServiceUnavailableWithoutDashboard(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, nil, nil, nil)
	srv := httptest.NewServer(NewRouter(handler, nil).SetupChi())
	defer srv.Close()

	for _, path := range []string{"/api/v1/widgets", "/api/v1/layout/export"} {
		resp, err := srv.Client().Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("GET %s = %d, want 503", path, resp.StatusCode)
		}
	}

	resp, err := srv.Client().Post(srv.URL+"/api/v1/explore", "application/json", strings.NewReader(`{"url":"https://example.com"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("POST /explore = %d, want 503", resp.StatusCode)
	}
}
