// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/finboard/internal/connector"
	"github.com/tomtom215/finboard/internal/jsonvalue"
	"github.com/tomtom215/finboard/internal/layout"
	"github.com/tomtom215/finboard/internal/metrics"
	"github.com/tomtom215/finboard/internal/models"
	"github.com/tomtom215/finboard/internal/templates"
	"github.com/tomtom215/finboard/internal/view"
	"github.com/tomtom215/finboard/internal/widget"
)

// echoConnector emits one payload naming its widget and waits.
type echoConnector struct{ id string }

func (c echoConnector) Run(ctx context.Context, emit connector.EmitFunc) error {
	emit(connector.Event{
		Kind:    connector.EventPayload,
		State:   models.StateIdle,
		Payload: jsonvalue.Object(map[string]jsonvalue.Value{"id": jsonvalue.String(c.id)}),
	})
	<-ctx.Done()
	return nil
}

func (c echoConnector) String() string { return "echo" }

func echoFactory(id string, _ *models.WidgetSourceConfig, _ int) connector.Connector {
	return echoConnector{id: id}
}

type recordingPublisher struct {
	mu        sync.Mutex
	snapshots []widget.Snapshot
	layouts   [][]models.Widget
}

func (p *recordingPublisher) PublishSnapshot(s widget.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, s)
}

func (p *recordingPublisher) PublishLayout(ws []models.Widget) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.layouts = append(p.layouts, ws)
}

func (p *recordingPublisher) layoutCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.layouts)
}

func (p *recordingPublisher) sawPayloadFor(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.snapshots {
		if s.WidgetID == id && s.HasPayload() {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func sourced(id string) models.Widget {
	return models.Widget{
		ID:   id,
		Type: models.WidgetTypeCard,
		Config: models.WidgetSourceConfig{
			RestURL: "https://api.example.com/" + id,
			Fields:  []models.FieldSpec{{ID: "1", Label: "ID", Path: "id"}},
		},
	}
}

func newTestDashboard(t *testing.T, store layout.Store, opts ...Option) (*Dashboard, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	n := 0
	base := []Option{
		WithPublisher(pub),
		WithRuntimeOptions(widget.WithFactory(echoFactory)),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("gen-%d", n) }),
	}
	d := New(store, append(base, opts...)...)
	t.Cleanup(func() { _ = d.Stop() })
	return d, pub
}

func ids(entries []Entry) string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Widget.ID
	}
	return strings.Join(out, ",")
}

func storedIDs(t *testing.T, store layout.Store) string {
	t.Helper()
	data, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	widgets, err := layout.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]string, len(widgets))
	for i, w := range widgets {
		out[i] = w.ID
	}
	return strings.Join(out, ",")
}

func TestStart_SeedsEmptyStore(t *testing.T) {
	t.Parallel()

	store := layout.NewMemoryStore()
	d, pub := newTestDashboard(t, store, WithSeedTemplate(templates.CryptoLive))

	if err := d.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := ids(d.List()); got != "btc-live,eth-live" {
		t.Errorf("List() = %s", got)
	}
	if got := storedIDs(t, store); got != "btc-live,eth-live" {
		t.Errorf("stored layout = %s", got)
	}
	waitFor(t, "seeded widget snapshot", func() bool { return pub.sawPayloadFor("eth-live") })
}

func TestStart_LoadsStoredLayout(t *testing.T) {
	t.Parallel()

	store := layout.NewMemoryStore()
	data, _ := layout.Encode([]models.Widget{sourced("a"), sourced("b"), sourced("a"), {Type: models.WidgetTypeTable}})
	_ = store.Save(context.Background(), data)

	d, _ := newTestDashboard(t, store, WithSeedTemplate(templates.MarketOverview))
	if err := d.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := ids(d.List()); got != "a,b,gen-1" {
		t.Errorf("List() = %s, want duplicates dropped and missing id generated", got)
	}
}

func TestStart_CorruptStoreStartsEmpty(t *testing.T) {
	t.Parallel()

	store := layout.NewMemoryStore()
	_ = store.Save(context.Background(), []byte(`{"not":"an array"}`))

	d, _ := newTestDashboard(t, store)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if len(d.List()) != 0 {
		t.Errorf("List() = %v, want empty", d.List())
	}
}

func TestAdd(t *testing.T) {
	t.Parallel()

	store := layout.NewMemoryStore()
	d, pub := newTestDashboard(t, store)
	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatal(err)
	}

	entry, err := d.Add(ctx, models.Widget{Type: models.WidgetTypeCard, Config: sourced("x").Config})
	if err != nil {
		t.Fatal(err)
	}
	if entry.Widget.ID != "gen-1" {
		t.Errorf("generated id = %q", entry.Widget.ID)
	}
	if _, err := d.Add(ctx, sourced("gen-1")); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate Add() error = %v", err)
	}

	waitFor(t, "payload snapshot", func() bool { return pub.sawPayloadFor("gen-1") })
	if pub.layoutCount() != 1 {
		t.Errorf("layout notifications = %d, want 1", pub.layoutCount())
	}
	if got := storedIDs(t, store); got != "gen-1" {
		t.Errorf("stored = %s", got)
	}

	got, err := d.Get("gen-1")
	if err != nil {
		t.Fatal(err)
	}
	card := got.Snapshot.DerivedView.Card
	if card == nil || len(card.Fields) != 1 || card.Fields[0].Text != "gen-1" {
		t.Errorf("card = %+v", card)
	}
}

func TestReorder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to int
		want     string
		wantErr  bool
	}{
		{0, 2, "b,c,a,d", false},
		{3, 0, "d,a,b,c", false},
		{1, 3, "a,c,d,b", false},
		{2, 2, "a,b,c,d", false},
		{-1, 0, "a,b,c,d", true},
		{0, 4, "a,b,c,d", true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d->%d", tt.from, tt.to), func(t *testing.T) {
			t.Parallel()

			store := layout.NewMemoryStore()
			d, _ := newTestDashboard(t, store)
			ctx := context.Background()
			if _, err := d.SetWidgets(ctx, []models.Widget{sourced("a"), sourced("b"), sourced("c"), sourced("d")}); err != nil {
				t.Fatal(err)
			}

			err := d.Reorder(ctx, tt.from, tt.to)
			if tt.wantErr != errors.Is(err, ErrIndexOutOfRange) {
				t.Fatalf("Reorder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := ids(d.List()); got != tt.want {
				t.Errorf("order = %s, want %s", got, tt.want)
			}
			if got := storedIDs(t, store); got != tt.want {
				t.Errorf("stored order = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUpdateAndRemove(t *testing.T) {
	t.Parallel()

	d, _ := newTestDashboard(t, layout.NewMemoryStore())
	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := d.SetWidgets(ctx, []models.Widget{sourced("a"), sourced("b")}); err != nil {
		t.Fatal(err)
	}

	cfg := sourced("a").Config
	cfg.Label = "Renamed"
	entry, err := d.Update(ctx, "a", models.WidgetTypeTable, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Widget.Type != models.WidgetTypeTable || entry.Widget.Config.Label != "Renamed" {
		t.Errorf("updated = %+v", entry.Widget)
	}
	if entry.Snapshot.Type != models.WidgetTypeTable {
		t.Errorf("snapshot type = %s", entry.Snapshot.Type)
	}

	if err := d.Remove(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := d.Remove(ctx, "a"); !errors.Is(err, ErrWidgetNotFound) {
		t.Errorf("second Remove() error = %v", err)
	}
	if _, err := d.Refresh("a"); !errors.Is(err, ErrWidgetNotFound) {
		t.Errorf("Refresh(removed) error = %v", err)
	}
	if _, err := d.Update(ctx, "zzz", "", cfg); !errors.Is(err, ErrWidgetNotFound) {
		t.Errorf("Update(unknown) error = %v", err)
	}
	if got := ids(d.List()); got != "b" {
		t.Errorf("List() = %s", got)
	}
}

func TestRefreshAndView(t *testing.T) {
	t.Parallel()

	d, _ := newTestDashboard(t, layout.NewMemoryStore())
	ctx := context.Background()
	if _, err := d.Add(ctx, sourced("a")); err != nil {
		t.Fatal(err)
	}

	if _, err := d.Refresh("a"); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Refresh() while stopped error = %v", err)
	}
	if e, _ := d.Get("a"); e.Snapshot.ConnectionState != models.StateIdle {
		t.Errorf("stopped snapshot state = %s", e.Snapshot.ConnectionState)
	}

	if err := d.Start(ctx); err != nil {
		t.Fatal(err)
	}
	q := "bit"
	snap, err := d.UpdateView("a", view.Patch{Search: &q})
	if err != nil {
		t.Fatal(err)
	}
	if snap.ViewState.SearchQuery != "bit" {
		t.Errorf("view state = %+v", snap.ViewState)
	}

	snap, err = d.Refresh("a")
	if err != nil {
		t.Fatal(err)
	}
	if snap.ViewState.SearchQuery != "bit" {
		t.Errorf("view state lost on refresh: %+v", snap.ViewState)
	}
}

func TestImportExport(t *testing.T) {
	t.Parallel()

	d, _ := newTestDashboard(t, layout.NewMemoryStore())
	ctx := context.Background()

	if _, err := d.Import(ctx, []byte(`{"id":"a"}`)); !errors.Is(err, layout.ErrNotArray) {
		t.Errorf("Import(object) error = %v", err)
	}

	entries, err := d.Import(ctx, []byte(`[{"id":"x","type":"chart","config":{"socketUrl":"wss://s.example.com","fields":[]}}]`))
	if err != nil {
		t.Fatal(err)
	}
	if ids(entries) != "x" {
		t.Errorf("imported = %s", ids(entries))
	}

	out, err := d.Export()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "\n  {\n    \"id\": \"x\"") || !strings.Contains(string(out), `"socketUrl": "wss://s.example.com"`) {
		t.Errorf("Export() = %s", out)
	}
}

func TestApplyTemplate(t *testing.T) {
	t.Parallel()

	d, pub := newTestDashboard(t, layout.NewMemoryStore())
	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Add(ctx, sourced("mine")); err != nil {
		t.Fatal(err)
	}

	entries, err := d.ApplyTemplate(ctx, templates.MarketOverview)
	if err != nil {
		t.Fatal(err)
	}
	if ids(entries) != "top-coins,btc-card" {
		t.Errorf("after template = %s", ids(entries))
	}
	waitFor(t, "template widget payload", func() bool { return pub.sawPayloadFor("btc-card") })

	if _, err := d.ApplyTemplate(ctx, "missing"); !errors.Is(err, templates.ErrUnknownTemplate) {
		t.Errorf("ApplyTemplate(missing) error = %v", err)
	}
}

type failingStore struct{ layout.MemoryStore }

func (s *failingStore) Save(context.Context, []byte) error { return errors.New("disk full") }
func (s *failingStore) Backend() string                    { return "failing" }

func TestPersistFailureKeepsChange(t *testing.T) {
	t.Parallel()

	before := testutil.ToFloat64(metrics.LayoutSaves.WithLabelValues("failing", "error"))

	d, _ := newTestDashboard(t, &failingStore{})
	if _, err := d.Add(context.Background(), sourced("a")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if ids(d.List()) != "a" {
		t.Errorf("List() = %s", ids(d.List()))
	}
	if got := testutil.ToFloat64(metrics.LayoutSaves.WithLabelValues("failing", "error")) - before; got != 1 {
		t.Errorf("failed saves recorded = %v, want 1", got)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	d, _ := newTestDashboard(t, layout.NewMemoryStore())
	if _, err := d.Add(context.Background(), sourced("a")); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Serve(ctx) }()

	waitFor(t, "runtime start", func() bool {
		_, err := d.Refresh("a")
		return err == nil
	})
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if _, err := d.Refresh("a"); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Refresh() after Serve error = %v", err)
	}
}
