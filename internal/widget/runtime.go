// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package widget

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/finboard/internal/connector"
	"github.com/tomtom215/finboard/internal/jsonvalue"
	"github.com/tomtom215/finboard/internal/logging"
	"github.com/tomtom215/finboard/internal/metrics"
	"github.com/tomtom215/finboard/internal/models"
	"github.com/tomtom215/finboard/internal/view"
)

var (
	// ErrNotStarted is returned by control operations before Start.
	ErrNotStarted = errors.New("widget runtime not started")

	// ErrStopped is returned by control operations after Stop.
	ErrStopped = errors.New("widget runtime stopped")
)

const inboxSize = 64

type msgKind uint8

const (
	msgEvent msgKind = iota + 1
	msgConfigure
	msgRefresh
	msgView
)

type message struct {
	kind  msgKind
	event connector.Event
	wtype models.WidgetType
	cfg   *models.WidgetSourceConfig
	force bool
	patch view.Patch
	reply chan Snapshot
}

// Runtime owns the data pipeline of one widget. All state changes happen on
// a single loop goroutine; connectors and API callers talk to it through
// the inbox.
type Runtime struct {
	id        string
	settings  Settings
	factory   Factory
	newTicker connector.TickerFunc
	rnd       view.RandSource
	now       func() time.Time

	inbox    chan message
	quit     chan struct{}
	done     chan struct{}
	startMu  sync.Mutex
	started  atomic.Bool
	stopOnce sync.Once

	current atomic.Pointer[Snapshot]

	subsMu     sync.Mutex
	subs       map[uint64]chan Snapshot
	nextSub    uint64
	subsClosed bool

	// Owned by the loop goroutine.
	wtype        models.WidgetType
	cfg          *models.WidgetSourceConfig
	gen          uint64
	cancel       context.CancelFunc
	connDone     chan struct{}
	state        models.ConnectionState
	live         bool
	loading      bool
	cooldown     int
	lastErr      *models.WidgetError
	raw          jsonvalue.Value
	viewState    models.ViewState
	derived      view.Derived
	derivedDirty bool
	version      uint64
}

// New creates a stopped runtime. Call Start to begin acquiring data.
func New(id string, wtype models.WidgetType, opts ...Option) *Runtime {
	r := &Runtime{
		id:           id,
		rnd:          view.DefaultRand,
		now:          time.Now,
		inbox:        make(chan message, inboxSize),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
		subs:         make(map[uint64]chan Snapshot),
		wtype:        wtype,
		cfg:          &models.WidgetSourceConfig{},
		state:        models.StateIdle,
		raw:          jsonvalue.Undefined(),
		viewState:    models.DefaultViewState(),
		derivedDirty: true,
	}
	r.factory = r.defaultFactory
	for _, opt := range opts {
		opt(r)
	}
	r.publish()
	return r
}

// ID returns the widget ID.
func (r *Runtime) ID() string { return r.id }

// Snapshot returns the latest published snapshot.
func (r *Runtime) Snapshot() Snapshot {
	return *r.current.Load()
}

// Done is closed once the runtime has stopped and released its connector.
func (r *Runtime) Done() <-chan struct{} { return r.done }

// Start launches the runtime with cfg. On a running runtime it tears the
// current connector down and starts a new one.
func (r *Runtime) Start(cfg models.WidgetSourceConfig) error {
	if err := r.ensureLoop(); err != nil {
		return err
	}
	c := cfg.Clone()
	_, err := r.call(message{kind: msgConfigure, cfg: &c, force: true})
	return err
}

// Reconfigure changes the widget type and source config. The connector is
// only rebuilt when the config differs from the running one.
func (r *Runtime) Reconfigure(wtype models.WidgetType, cfg models.WidgetSourceConfig) (Snapshot, error) {
	if err := r.ensureLoop(); err != nil {
		return Snapshot{}, err
	}
	c := cfg.Clone()
	return r.call(message{kind: msgConfigure, wtype: wtype, cfg: &c})
}

// ManualRefresh restarts the connector. View state and any active cooldown
// carry over; the payload and connection state reset.
func (r *Runtime) ManualRefresh() (Snapshot, error) {
	return r.call(message{kind: msgRefresh})
}

// UpdateViewState applies a search, sort or page change.
func (r *Runtime) UpdateViewState(p view.Patch) (Snapshot, error) {
	return r.call(message{kind: msgView, patch: p})
}

// Stop tears down the connector and ends the loop. It is idempotent and
// returns once every goroutine owned by the runtime has exited.
func (r *Runtime) Stop() {
	r.stopOnce.Do(func() {
		r.startMu.Lock()
		close(r.quit)
		started := r.started.Load()
		r.startMu.Unlock()

		if !started {
			r.closeSubscribers()
			close(r.done)
		}
	})
	<-r.done
}

// Subscribe returns a channel that always holds the newest snapshot.
// Intermediate snapshots are dropped for slow readers. The channel is closed
// by cancel or when the runtime stops.
func (r *Runtime) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	r.subsMu.Lock()
	if r.subsClosed {
		r.subsMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	ch <- *r.current.Load()
	r.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.subsMu.Lock()
			defer r.subsMu.Unlock()
			if c, ok := r.subs[id]; ok {
				delete(r.subs, id)
				close(c)
			}
		})
	}
}

func (r *Runtime) String() string {
	return fmt.Sprintf("widget-runtime[%s]", r.id)
}

func (r *Runtime) ensureLoop() error {
	r.startMu.Lock()
	defer r.startMu.Unlock()

	select {
	case <-r.quit:
		return ErrStopped
	default:
	}

	if !r.started.Load() {
		r.started.Store(true)
		metrics.WidgetRuntimesActive.Inc()
		go r.loop()
	}
	return nil
}

func (r *Runtime) call(m message) (Snapshot, error) {
	select {
	case <-r.quit:
		return Snapshot{}, ErrStopped
	default:
	}
	if !r.started.Load() {
		return Snapshot{}, ErrNotStarted
	}

	m.reply = make(chan Snapshot, 1)
	select {
	case r.inbox <- m:
	case <-r.done:
		return Snapshot{}, ErrStopped
	}

	select {
	case s := <-m.reply:
		return s, nil
	case <-r.done:
		return Snapshot{}, ErrStopped
	}
}

func (r *Runtime) loop() {
	defer close(r.done)
	defer metrics.WidgetRuntimesActive.Dec()
	defer r.closeSubscribers()
	defer r.teardown()

	for {
		select {
		case <-r.quit:
			return
		case m := <-r.inbox:
			r.handle(m)
		}
	}
}

func (r *Runtime) handle(m message) {
	switch m.kind {
	case msgEvent:
		r.applyEvent(m.event)
		return

	case msgConfigure:
		if m.wtype != "" && m.wtype != r.wtype {
			r.wtype = m.wtype
			r.derivedDirty = true
		}
		if m.force || r.cancel == nil || !reflect.DeepEqual(*r.cfg, *m.cfg) {
			reason := "config"
			if r.cancel == nil && r.gen == 0 {
				reason = ""
			}
			r.cfg = m.cfg
			r.derivedDirty = true
			r.restart(reason)
		}

	case msgRefresh:
		r.restart("refresh")

	case msgView:
		pages := view.TablePageCount(r.raw, r.cfg, r.viewState)
		next := view.Apply(r.viewState, m.patch, pages)
		if next != r.viewState {
			r.viewState = next
			r.derivedDirty = true
		}
	}

	r.publish()
	if m.reply != nil {
		m.reply <- *r.current.Load()
	}
}

func (r *Runtime) applyEvent(ev connector.Event) {
	if ev.Generation != r.gen || r.cancel == nil {
		metrics.StaleEventsDropped.Inc()
		return
	}

	switch ev.Kind {
	case connector.EventState:
		r.state = ev.State
		r.lastErr = ev.Err
		r.live = ev.Live
		r.loading = ev.State == models.StateConnecting
	case connector.EventPayload:
		r.raw = ev.Payload
		r.lastErr = nil
		r.live = ev.Live
		r.loading = false
		if ev.State != "" {
			r.state = ev.State
		}
		r.derivedDirty = true
	case connector.EventCooldown:
		r.cooldown = ev.Cooldown
	case connector.EventClosed:
		r.live = false
		r.loading = false
		if ev.State != "" {
			r.state = ev.State
		}
	default:
		return
	}

	r.publish()
}

// restart tears down the running connector, resets per-connection state
// and launches a connector for the current config.
func (r *Runtime) restart(reason string) {
	carried := r.cooldown
	r.teardown()
	if reason != "" {
		metrics.RecordConnectorRestart(reason)
	}

	r.gen++
	r.raw = jsonvalue.Undefined()
	r.lastErr = nil
	r.live = false
	r.derivedDirty = true

	if !r.cfg.HasSource() {
		r.state = models.StateIdle
		r.loading = false
		r.cooldown = 0
		return
	}
	if r.cfg.UsesSocket() {
		carried = 0
	}
	r.cooldown = carried
	r.state = models.StateConnecting
	r.loading = true

	ctx, cancel := context.WithCancel(logging.ContextWithWidgetID(context.Background(), r.id))
	done := make(chan struct{})
	r.cancel = cancel
	r.connDone = done

	gen := r.gen
	conn := r.factory(r.id, r.cfg, carried)
	emit := func(ev connector.Event) {
		ev.Generation = gen
		select {
		case r.inbox <- message{kind: msgEvent, event: ev}:
		case <-ctx.Done():
		}
	}

	logging.Ctx(ctx).Debug().
		Str("connector", conn.String()).
		Uint64("generation", gen).
		Int("carried_cooldown", carried).
		Msg("Connector starting")

	go runConnector(ctx, conn, emit, done)
}

func runConnector(ctx context.Context, conn connector.Connector, emit connector.EmitFunc, done chan struct{}) {
	defer close(done)
	defer func() {
		if p := recover(); p != nil {
			logging.Ctx(ctx).Error().
				Str("connector", conn.String()).
				Interface("panic", p).
				Msg("Connector panicked")
			emit(connector.Event{
				Kind:  connector.EventState,
				State: models.StateError,
				Err:   &models.WidgetError{Kind: models.ErrorKindTransport, Message: "Failed to fetch data"},
			})
		}
	}()

	if err := conn.Run(ctx, emit); err != nil && ctx.Err() == nil {
		logging.Ctx(ctx).Debug().Err(err).Str("connector", conn.String()).Msg("Connector exited")
	}
}

// teardown cancels the running connector and waits for its goroutine.
func (r *Runtime) teardown() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.connDone
	r.cancel = nil
	r.connDone = nil
}

func (r *Runtime) publish() {
	if r.derivedDirty {
		r.derived = view.Build(r.wtype, r.raw, r.cfg, r.viewState, r.rnd)
		r.derivedDirty = false
	}
	r.version++

	s := &Snapshot{
		WidgetID:                 r.id,
		Type:                     r.wtype,
		ConnectionState:          r.state,
		IsLive:                   r.live,
		Loading:                  r.loading,
		CooldownSecondsRemaining: r.cooldown,
		LastError:                r.lastErr,
		RawPayload:               r.raw,
		ViewState:                r.viewState,
		DerivedView:              r.derived,
		Version:                  r.version,
		UpdatedAt:                r.now().UTC(),
	}
	r.current.Store(s)

	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	for _, ch := range r.subs {
		deliver(ch, *s)
	}
}

// deliver replaces whatever ch holds with s. Only the publisher sends on
// subscriber channels, so the drain-then-send cannot race another sender.
func deliver(ch chan Snapshot, s Snapshot) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}

func (r *Runtime) closeSubscribers() {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	if r.subsClosed {
		return
	}
	r.subsClosed = true
	for id, ch := range r.subs {
		delete(r.subs, id)
		close(ch)
	}
}

func (r *Runtime) defaultFactory(id string, cfg *models.WidgetSourceConfig, carriedCooldown int) connector.Connector {
	if cfg.UsesSocket() {
		return connector.NewStreamer(connector.StreamerConfig{
			WidgetID:         id,
			URL:              cfg.SocketURL,
			Subscribe:        cfg.SocketSubscribeMessage,
			HandshakeTimeout: r.settings.HandshakeTimeout,
			MaxMessageBytes:  r.settings.MaxMessageBytes,
		})
	}

	var opts []connector.PollerOption
	if r.newTicker != nil {
		opts = append(opts, connector.WithTicker(r.newTicker))
	}
	return connector.NewPoller(connector.PollerConfig{
		WidgetID:        id,
		URL:             cfg.RestURL,
		APIKey:          cfg.APIKey,
		APIKeyParam:     cfg.APIKeyParamName,
		Interval:        time.Duration(cfg.PollIntervalSeconds) * time.Second,
		CooldownSeconds: r.settings.CooldownSeconds,
		InitialCooldown: carriedCooldown,
	}, r.settings.Fetcher, opts...)
}
