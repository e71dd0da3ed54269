// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package templates

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tomtom215/finboard/internal/models"
)

// ErrUnknownTemplate is returned for a name that is not in the catalog.
var ErrUnknownTemplate = errors.New("unknown template")

// Template names.
const (
	CryptoLive     = "crypto-live"
	MarketOverview = "market-overview"
)

// Template is a named, pre-built widget set.
type Template struct {
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	RequiresKey bool            `json:"requires_key"`
	Widgets     []models.Widget `json:"widgets"`
}

var catalog = map[string]Template{
	CryptoLive: {
		Name:        CryptoLive,
		Title:       "Crypto Live",
		Description: "Real-time WebSocket feeds for Bitcoin and Ethereum.",
		Widgets: []models.Widget{
			{
				ID:   "btc-live",
				Type: models.WidgetTypeCard,
				Config: models.WidgetSourceConfig{
					Label:     "Bitcoin Live (WebSocket)",
					SocketURL: "wss://stream.binance.com:9443/ws/btcusdt@trade",
					Fields: []models.FieldSpec{
						{ID: "1", Label: "Price", Path: "p"},
						{ID: "2", Label: "Qty", Path: "q"},
					},
				},
			},
			{
				ID:   "eth-live",
				Type: models.WidgetTypeChart,
				Config: models.WidgetSourceConfig{
					Label:     "Ethereum Live Feed",
					SocketURL: "wss://stream.binance.com:9443/ws/ethusdt@trade",
					Fields: []models.FieldSpec{
						{ID: "1", Label: "Price", Path: "p"},
					},
				},
			},
		},
	},
	MarketOverview: {
		Name:        MarketOverview,
		Title:       "Market Overview",
		Description: "Top 10 Crypto table and detailed Bitcoin cards using CoinGecko.",
		Widgets: []models.Widget{
			{
				ID:   "top-coins",
				Type: models.WidgetTypeTable,
				Config: models.WidgetSourceConfig{
					Label:               "Top 10 Crypto Assets",
					RestURL:             "https://api.coingecko.com/api/v3/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=10&page=1&sparkline=false",
					PollIntervalSeconds: 60,
					Fields: []models.FieldSpec{
						{ID: "1", Label: "Name", Path: "name"},
						{ID: "2", Label: "Price", Path: "current_price"},
						{ID: "3", Label: "High 24h", Path: "high_24h"},
					},
				},
			},
			{
				ID:   "btc-card",
				Type: models.WidgetTypeCard,
				Config: models.WidgetSourceConfig{
					Label:               "Bitcoin Overview",
					RestURL:             "https://api.coingecko.com/api/v3/coins/bitcoin",
					PollIntervalSeconds: 30,
					Fields: []models.FieldSpec{
						{ID: "1", Label: "Current Price", Path: "market_data.current_price.usd"},
						{ID: "2", Label: "24h Change %", Path: "market_data.price_change_percentage_24h"},
					},
				},
			},
		},
	},
}

// Names returns the catalog's template names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns every template, sorted by name. The widgets are copies.
func List() []Template {
	names := Names()
	out := make([]Template, 0, len(names))
	for _, name := range names {
		t, _ := Lookup(name)
		out = append(out, t)
	}
	return out
}

// Lookup returns a deep copy of the named template.
func Lookup(name string) (Template, error) {
	t, ok := catalog[name]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	t.Widgets = cloneWidgets(t.Widgets)
	return t, nil
}

// Widgets returns a fresh copy of the named template's widget list, ready
// to replace a dashboard layout.
func Widgets(name string) ([]models.Widget, error) {
	t, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return t.Widgets, nil
}

func cloneWidgets(in []models.Widget) []models.Widget {
	out := make([]models.Widget, len(in))
	for i, w := range in {
		out[i] = w.Clone()
	}
	return out
}
