// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tomtom215/finboard/internal/layout"
	"github.com/tomtom215/finboard/internal/logging"
	"github.com/tomtom215/finboard/internal/metrics"
	"github.com/tomtom215/finboard/internal/models"
	"github.com/tomtom215/finboard/internal/templates"
	"github.com/tomtom215/finboard/internal/view"
	"github.com/tomtom215/finboard/internal/widget"
)

var (
	// ErrWidgetNotFound is returned for an unknown widget ID.
	ErrWidgetNotFound = errors.New("widget not found")

	// ErrDuplicateID is returned when adding a widget whose ID is taken.
	ErrDuplicateID = errors.New("widget id already exists")

	// ErrIndexOutOfRange is returned by Reorder for a bad position.
	ErrIndexOutOfRange = errors.New("widget index out of range")

	// ErrNotRunning is returned by runtime operations while stopped.
	ErrNotRunning = errors.New("dashboard not running")
)

// Publisher receives snapshot and layout notifications. Implementations
// must not block.
type Publisher interface {
	PublishSnapshot(s widget.Snapshot)
	PublishLayout(widgets []models.Widget)
}

type nopPublisher struct{}

func (nopPublisher) PublishSnapshot(widget.Snapshot) {}
func (nopPublisher) PublishLayout([]models.Widget)   {}

// Entry pairs a widget's persisted definition with its latest snapshot.
type Entry struct {
	Widget   models.Widget   `json:"widget"`
	Snapshot widget.Snapshot `json:"snapshot"`
}

type managed struct {
	rt        *widget.Runtime
	unsub     func()
	forwarded chan struct{}
}

// Dashboard is the explicit dashboard state. It is safe for concurrent use.
type Dashboard struct {
	store        layout.Store
	publisher    Publisher
	runtimeOpts  []widget.Option
	seedTemplate string
	newID        func() string

	mu      sync.Mutex
	widgets []models.Widget
	managed map[string]*managed
	running bool
	loaded  bool
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithPublisher sets where snapshots and layout changes go.
func WithPublisher(p Publisher) Option {
	return func(d *Dashboard) {
		if p != nil {
			d.publisher = p
		}
	}
}

// WithSeedTemplate names a template to install when the store is empty.
func WithSeedTemplate(name string) Option {
	return func(d *Dashboard) { d.seedTemplate = name }
}

// WithRuntimeOptions passes options to every widget runtime.
func WithRuntimeOptions(opts ...widget.Option) Option {
	return func(d *Dashboard) { d.runtimeOpts = append(d.runtimeOpts, opts...) }
}

// WithIDGenerator replaces the UUID generator used for widgets without an ID.
func WithIDGenerator(fn func() string) Option {
	return func(d *Dashboard) { d.newID = fn }
}

// New creates a stopped dashboard backed by store.
func New(store layout.Store, opts ...Option) *Dashboard {
	d := &Dashboard{
		store:     store,
		publisher: nopPublisher{},
		newID:     uuid.NewString,
		managed:   make(map[string]*managed),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start loads the layout (the first time) and starts a runtime per widget.
func (d *Dashboard) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return nil
	}
	if !d.loaded {
		if err := d.loadLocked(ctx); err != nil {
			return err
		}
		d.loaded = true
	}

	d.running = true
	for _, w := range d.widgets {
		d.attachLocked(w)
	}
	metrics.LayoutWidgets.Set(float64(len(d.widgets)))

	logging.Info().
		Int("widgets", len(d.widgets)).
		Str("backend", d.store.Backend()).
		Msg("Dashboard started")
	return nil
}

// Stop stops every runtime and waits for them. The widget list is kept, so
// a later Start resumes the same layout.
func (d *Dashboard) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}
	d.running = false
	for id := range d.managed {
		d.detachLocked(id)
	}
	logging.Info().Msg("Dashboard stopped")
	return nil
}

// Serve runs the dashboard until ctx is canceled.
func (d *Dashboard) Serve(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return fmt.Errorf("dashboard start failed: %w", err)
	}
	<-ctx.Done()
	if err := d.Stop(); err != nil {
		return fmt.Errorf("dashboard stop failed: %w", err)
	}
	return ctx.Err()
}

// Running reports whether widget runtimes are attached.
func (d *Dashboard) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *Dashboard) String() string { return "dashboard" }

func (d *Dashboard) loadLocked(ctx context.Context) error {
	data, err := d.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}

	if data == nil {
		if d.seedTemplate == "" {
			return nil
		}
		seed, err := templates.Widgets(d.seedTemplate)
		if err != nil {
			return fmt.Errorf("seed layout: %w", err)
		}
		d.widgets = d.normalizeLocked(seed)
		d.persistLocked(ctx)
		logging.Info().Str("template", d.seedTemplate).Msg("Seeded empty layout from template")
		return nil
	}

	widgets, err := layout.Decode(data)
	if err != nil {
		// A corrupt blob starts an empty dashboard; it is overwritten on the
		// next change.
		logging.Error().Err(err).Str("backend", d.store.Backend()).Msg("Stored layout unreadable, starting empty")
		return nil
	}
	d.widgets = d.normalizeLocked(widgets)
	return nil
}

// normalizeLocked assigns missing IDs and drops repeated ones.
func (d *Dashboard) normalizeLocked(in []models.Widget) []models.Widget {
	seen := make(map[string]bool, len(in))
	out := make([]models.Widget, 0, len(in))
	for _, w := range in {
		w = w.Clone()
		if w.ID == "" {
			w.ID = d.newID()
		}
		if seen[w.ID] {
			logging.Warn().Str("widget_id", w.ID).Msg("Dropping widget with duplicate id")
			continue
		}
		seen[w.ID] = true
		out = append(out, w)
	}
	return out
}

// attachLocked starts a runtime for w and forwards its snapshots.
func (d *Dashboard) attachLocked(w models.Widget) {
	rt := widget.New(w.ID, w.Type, d.runtimeOpts...)
	ch, unsub := rt.Subscribe()
	m := &managed{rt: rt, unsub: unsub, forwarded: make(chan struct{})}
	d.managed[w.ID] = m

	pub := d.publisher
	go func() {
		defer close(m.forwarded)
		for s := range ch {
			pub.PublishSnapshot(s)
		}
	}()

	if err := rt.Start(w.Config); err != nil {
		logging.Error().Err(err).Str("widget_id", w.ID).Msg("Widget runtime failed to start")
	}
}

func (d *Dashboard) detachLocked(id string) {
	m, ok := d.managed[id]
	if !ok {
		return
	}
	delete(d.managed, id)
	m.rt.Stop()
	m.unsub()
	<-m.forwarded
}

// persistLocked saves the list. Failures are logged and counted; the
// in-memory change stands.
func (d *Dashboard) persistLocked(ctx context.Context) {
	metrics.LayoutWidgets.Set(float64(len(d.widgets)))

	data, err := layout.Encode(d.widgets)
	if err == nil {
		err = d.store.Save(ctx, data)
	}
	metrics.RecordLayoutSave(d.store.Backend(), err)
	if err != nil {
		logging.Error().Err(err).Str("backend", d.store.Backend()).Msg("Failed to persist layout")
	}
}

// changedLocked persists and announces the current list.
func (d *Dashboard) changedLocked(ctx context.Context) {
	d.persistLocked(ctx)
	d.publisher.PublishLayout(cloneWidgets(d.widgets))
}

func (d *Dashboard) indexLocked(id string) int {
	for i := range d.widgets {
		if d.widgets[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Dashboard) entryLocked(w models.Widget) Entry {
	e := Entry{Widget: w.Clone()}
	if m, ok := d.managed[w.ID]; ok {
		e.Snapshot = m.rt.Snapshot()
	} else {
		e.Snapshot = idleSnapshot(w)
	}
	return e
}

func idleSnapshot(w models.Widget) widget.Snapshot {
	return widget.Snapshot{
		WidgetID:        w.ID,
		Type:            w.Type,
		ConnectionState: models.StateIdle,
		ViewState:       models.DefaultViewState(),
	}
}

// List returns every widget in display order with its latest snapshot.
func (d *Dashboard) List() []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Entry, 0, len(d.widgets))
	for _, w := range d.widgets {
		out = append(out, d.entryLocked(w))
	}
	return out
}

// Widgets returns a copy of the widget list.
func (d *Dashboard) Widgets() []models.Widget {
	d.mu.Lock()
	defer d.mu.Unlock()
	return cloneWidgets(d.widgets)
}

// Get returns one widget and its snapshot.
func (d *Dashboard) Get(id string) (Entry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexLocked(id)
	if i < 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
	}
	return d.entryLocked(d.widgets[i]), nil
}

// Add appends w to the list. An empty ID is replaced with a new UUID.
func (d *Dashboard) Add(ctx context.Context, w models.Widget) (Entry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w = w.Clone()
	if w.ID == "" {
		w.ID = d.newID()
	}
	if d.indexLocked(w.ID) >= 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrDuplicateID, w.ID)
	}

	d.widgets = append(d.widgets, w)
	if d.running {
		d.attachLocked(w)
	}
	d.changedLocked(ctx)

	logging.Info().Str("widget_id", w.ID).Str("type", string(w.Type)).Msg("Widget added")
	return d.entryLocked(w), nil
}

// Update replaces a widget's type and config. The runtime restarts its
// connector only when the config actually changed.
func (d *Dashboard) Update(ctx context.Context, id string, wtype models.WidgetType, cfg models.WidgetSourceConfig) (Entry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexLocked(id)
	if i < 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
	}

	w := d.widgets[i]
	if wtype != "" {
		w.Type = wtype
	}
	w.Config = cfg.Clone()
	d.widgets[i] = w

	if m, ok := d.managed[id]; ok {
		if _, err := m.rt.Reconfigure(w.Type, w.Config); err != nil {
			logging.Warn().Err(err).Str("widget_id", id).Msg("Widget reconfigure failed")
		}
	}
	d.changedLocked(ctx)
	return d.entryLocked(w), nil
}

// Remove deletes a widget and stops its runtime.
func (d *Dashboard) Remove(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
	}

	d.detachLocked(id)
	d.widgets = append(d.widgets[:i:i], d.widgets[i+1:]...)
	d.changedLocked(ctx)

	logging.Info().Str("widget_id", id).Msg("Widget removed")
	return nil
}

// Reorder moves the widget at from to position to, shifting the others.
func (d *Dashboard) Reorder(ctx context.Context, from, to int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := len(d.widgets)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: from=%d to=%d len=%d", ErrIndexOutOfRange, from, to, n)
	}
	if from == to {
		return nil
	}

	moved := d.widgets[from]
	rest := append(d.widgets[:from:from], d.widgets[from+1:]...)
	out := make([]models.Widget, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	d.widgets = out

	d.changedLocked(ctx)
	return nil
}

// SetWidgets replaces the whole list. Every old runtime is stopped before
// the new ones start, even for widgets that keep their ID.
func (d *Dashboard) SetWidgets(ctx context.Context, widgets []models.Widget) ([]Entry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id := range d.managed {
		d.detachLocked(id)
	}

	d.widgets = d.normalizeLocked(widgets)
	d.loaded = true
	if d.running {
		for _, w := range d.widgets {
			d.attachLocked(w)
		}
	}
	d.changedLocked(ctx)

	out := make([]Entry, 0, len(d.widgets))
	for _, w := range d.widgets {
		out = append(out, d.entryLocked(w))
	}
	return out, nil
}

// Import replaces the layout with an exported blob. The blob must be a
// JSON array; its elements are not otherwise checked.
func (d *Dashboard) Import(ctx context.Context, data []byte) ([]Entry, error) {
	widgets, err := layout.Decode(data)
	if err != nil {
		return nil, err
	}
	return d.SetWidgets(ctx, widgets)
}

// Export returns the layout as indented JSON.
func (d *Dashboard) Export() ([]byte, error) {
	return layout.Export(d.Widgets())
}

// ApplyTemplate replaces the layout with the named template.
func (d *Dashboard) ApplyTemplate(ctx context.Context, name string) ([]Entry, error) {
	widgets, err := templates.Widgets(name)
	if err != nil {
		return nil, err
	}
	logging.Info().Str("template", name).Msg("Applying template")
	return d.SetWidgets(ctx, widgets)
}

// Refresh restarts one widget's connector.
func (d *Dashboard) Refresh(id string) (widget.Snapshot, error) {
	rt, err := d.runtime(id)
	if err != nil {
		return widget.Snapshot{}, err
	}
	return notFoundIfStopped(id)(rt.ManualRefresh())
}

// UpdateView applies a table view change to one widget.
func (d *Dashboard) UpdateView(id string, p view.Patch) (widget.Snapshot, error) {
	rt, err := d.runtime(id)
	if err != nil {
		return widget.Snapshot{}, err
	}
	return notFoundIfStopped(id)(rt.UpdateViewState(p))
}

// notFoundIfStopped reports a runtime stopped by a concurrent Remove as a
// missing widget.
func notFoundIfStopped(id string) func(widget.Snapshot, error) (widget.Snapshot, error) {
	return func(s widget.Snapshot, err error) (widget.Snapshot, error) {
		if errors.Is(err, widget.ErrStopped) {
			return s, fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
		}
		return s, err
	}
}

func (d *Dashboard) runtime(id string) (*widget.Runtime, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.indexLocked(id) < 0 {
		return nil, fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
	}
	m, ok := d.managed[id]
	if !ok {
		return nil, ErrNotRunning
	}
	return m.rt, nil
}

func cloneWidgets(in []models.Widget) []models.Widget {
	out := make([]models.Widget, len(in))
	for i, w := range in {
		out[i] = w.Clone()
	}
	return out
}
