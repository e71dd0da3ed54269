// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/finboard/internal/logging"
	"github.com/tomtom215/finboard/internal/metrics"
	"github.com/tomtom215/finboard/internal/models"
)

// DefaultCooldownSeconds is how long polling pauses after a 429.
const DefaultCooldownSeconds = 60

// PollerConfig configures a REST poller.
type PollerConfig struct {
	WidgetID    string
	URL         string
	APIKey      string
	APIKeyParam string

	// Interval between fetches. Zero fetches once.
	Interval time.Duration

	// CooldownSeconds after a rate-limit response. Zero uses the default.
	CooldownSeconds int

	// InitialCooldown resumes a cooldown carried over from a previous
	// connector. While it is positive no fetch is made.
	InitialCooldown int
}

// Poller fetches a REST endpoint on an interval and pauses after 429s.
type Poller struct {
	cfg       PollerConfig
	url       string
	fetcher   *Fetcher
	newTicker TickerFunc
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithTicker replaces the ticker factory. Tests use it to drive time.
func WithTicker(fn TickerFunc) PollerOption {
	return func(p *Poller) {
		if fn != nil {
			p.newTicker = fn
		}
	}
}

// NewPoller creates a Poller. A nil fetcher uses NewFetcher(nil).
func NewPoller(cfg PollerConfig, fetcher *Fetcher, opts ...PollerOption) *Poller {
	if fetcher == nil {
		fetcher = NewFetcher(nil)
	}
	if cfg.CooldownSeconds <= 0 {
		cfg.CooldownSeconds = DefaultCooldownSeconds
	}
	p := &Poller{
		cfg:       cfg,
		url:       InjectAPIKey(cfg.URL, cfg.APIKey, cfg.APIKeyParam),
		fetcher:   fetcher,
		newTicker: NewRealTicker,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Poller) String() string {
	return fmt.Sprintf("rest-poller[%s]", p.cfg.WidgetID)
}

// Run fetches immediately (unless a carried cooldown is active), then on
// every interval tick. Interval ticks that land inside a cooldown are
// skipped; the fetch happens when the countdown reaches zero.
func (p *Poller) Run(ctx context.Context, emit EmitFunc) error {
	pc := &pollCycle{p: p, ctx: ctx, emit: emit}
	defer pc.stopCooldown()

	emit(stateEvent(models.StateConnecting, nil, false))

	if p.cfg.InitialCooldown > 0 {
		pc.enterCooldown(p.cfg.InitialCooldown, nil)
	} else {
		pc.fetch()
	}

	var pollC <-chan time.Time
	if p.cfg.Interval > 0 {
		t := p.newTicker(p.cfg.Interval)
		defer t.Stop()
		pollC = t.C()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-pollC:
			if pc.remaining > 0 {
				continue
			}
			pc.fetch()

		case <-pc.cooldownC:
			pc.remaining--
			if pc.remaining < 0 {
				pc.remaining = 0
			}
			emit(cooldownEvent(pc.remaining))
			if pc.remaining == 0 {
				pc.stopCooldown()
				emit(stateEvent(models.StatePolling, nil, false))
				pc.fetch()
			}
		}
	}
}

// pollCycle is the mutable state of one Run call.
type pollCycle struct {
	p    *Poller
	ctx  context.Context
	emit EmitFunc

	remaining      int
	cooldownTicker Ticker
	cooldownC      <-chan time.Time
}

func (c *pollCycle) idleState() models.ConnectionState {
	if c.p.cfg.Interval > 0 {
		return models.StatePolling
	}
	return models.StateIdle
}

func (c *pollCycle) fetch() {
	v, err := c.p.fetcher.Fetch(c.ctx, c.p.url)

	// Results that arrive after teardown are discarded.
	if c.ctx.Err() != nil {
		return
	}

	if err == nil {
		c.emit(payloadEvent(v, c.idleState(), false))
		return
	}

	if errors.Is(err, ErrRateLimited) {
		metrics.RecordRateLimitHit()
		logging.Warn().
			Str("widget_id", c.p.cfg.WidgetID).
			Int("cooldown_seconds", c.p.cfg.CooldownSeconds).
			Msg("Source rate limited, pausing polls")
		c.enterCooldown(c.p.cfg.CooldownSeconds, AsWidgetError(err))
		return
	}

	logging.Debug().
		Err(err).
		Str("widget_id", c.p.cfg.WidgetID).
		Msg("Source fetch failed")
	c.emit(stateEvent(models.StateError, AsWidgetError(err), false))
}

func (c *pollCycle) enterCooldown(seconds int, werr *models.WidgetError) {
	if werr == nil {
		werr = (&SourceError{Kind: models.ErrorKindRateLimited}).WidgetError()
	}
	c.remaining = seconds
	c.emit(stateEvent(models.StateRateLimited, werr, false))
	c.emit(cooldownEvent(c.remaining))

	c.stopCooldown()
	c.cooldownTicker = c.p.newTicker(time.Second)
	c.cooldownC = c.cooldownTicker.C()
}

func (c *pollCycle) stopCooldown() {
	if c.cooldownTicker != nil {
		c.cooldownTicker.Stop()
		c.cooldownTicker = nil
	}
	c.cooldownC = nil
}
