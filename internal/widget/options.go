// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package widget

import (
	"time"

	"github.com/tomtom215/finboard/internal/connector"
	"github.com/tomtom215/finboard/internal/models"
	"github.com/tomtom215/finboard/internal/view"
)

// Settings are the connector defaults shared by every runtime of a
// dashboard.
type Settings struct {
	Fetcher          *connector.Fetcher
	CooldownSeconds  int
	HandshakeTimeout time.Duration
	MaxMessageBytes  int64
}

// Factory builds the connector for a source config. carriedCooldown is the
// cooldown left over from the previous connector, if any.
type Factory func(id string, cfg *models.WidgetSourceConfig, carriedCooldown int) connector.Connector

// Option configures a Runtime.
type Option func(*Runtime)

// WithSettings sets connector defaults.
func WithSettings(s Settings) Option {
	return func(r *Runtime) { r.settings = s }
}

// WithFactory replaces connector construction.
func WithFactory(f Factory) Option {
	return func(r *Runtime) {
		if f != nil {
			r.factory = f
		}
	}
}

// WithTicker sets the ticker factory handed to REST pollers.
func WithTicker(fn connector.TickerFunc) Option {
	return func(r *Runtime) { r.newTicker = fn }
}

// WithRand sets the jitter source for synthetic chart history.
func WithRand(rnd view.RandSource) Option {
	return func(r *Runtime) {
		if rnd != nil {
			r.rnd = rnd
		}
	}
}

// WithClock sets the time source for Snapshot.UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Runtime) {
		if now != nil {
			r.now = now
		}
	}
}

// WithViewState seeds the initial view state.
func WithViewState(s models.ViewState) Option {
	return func(r *Runtime) { r.viewState = s }
}
