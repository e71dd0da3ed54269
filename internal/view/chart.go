// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package view

import (
	"math/rand/v2"

	"github.com/tomtom215/finboard/internal/jsonvalue"
	"github.com/tomtom215/finboard/internal/models"
)

const (
	// SyntheticPoints is the length of the lead-in generated for
	// single-value sources.
	SyntheticPoints = 15

	// JitterFraction bounds synthetic points to +/-1% of the current value.
	JitterFraction = 0.01
)

// RandSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand uses the process-wide math/rand/v2 source.
var DefaultRand RandSource = globalRand{}

// Point is one chart sample. X is the position in the series.
//
// Synthetic points are fabricated around the current value and are not
// history. Clients should render them differently (dashed, faded).
type Point struct {
	X         int             `json:"x"`
	Value     float64         `json:"value"`
	Valid     bool            `json:"valid"`
	Synthetic bool            `json:"synthetic"`
	Raw       jsonvalue.Value `json:"raw"`
}

// Chart is the derived view of a chart widget. It plots the first field only.
type Chart struct {
	Label  string   `json:"label"`
	Path   string   `json:"path"`
	Points []Point  `json:"points"`
	Latest *float64 `json:"latest,omitempty"`
	// Synthetic is true when the series carries a fabricated lead-in.
	Synthetic bool `json:"synthetic"`
}

// BuildChart derives a series from the payload:
//
//   - an array payload gives one point per element, in index order;
//   - any other payload is one object: a numeric value gives SyntheticPoints
//     jittered points followed by the real value. rootPath is not consulted;
//   - a missing or non-numeric value gives an empty series.
func BuildChart(raw jsonvalue.Value, cfg *models.WidgetSourceConfig, rnd RandSource) Chart {
	chart := Chart{Points: []Point{}}
	if len(cfg.Fields) == 0 {
		return chart
	}

	field := cfg.Fields[0]
	chart.Label = field.Label
	chart.Path = field.Path

	if raw.IsArray() {
		for i, item := range raw.Items() {
			v := jsonvalue.Resolve(item, field.Path)
			f, ok := jsonvalue.ToNumber(v)
			chart.Points = append(chart.Points, Point{X: i, Value: f, Valid: ok, Raw: v})
		}
		if n := len(chart.Points); n > 0 && chart.Points[n-1].Valid {
			latest := chart.Points[n-1].Value
			chart.Latest = &latest
		}
		return chart
	}

	current := jsonvalue.Resolve(raw, field.Path)
	value, ok := jsonvalue.ToNumber(current)
	if !ok {
		return chart
	}

	if rnd == nil {
		rnd = DefaultRand
	}

	points := make([]Point, 0, SyntheticPoints+1)
	for i := 0; i < SyntheticPoints; i++ {
		factor := 1 - JitterFraction + rnd.Float64()*2*JitterFraction
		points = append(points, Point{
			X:         i,
			Value:     value * factor,
			Valid:     true,
			Synthetic: true,
		})
	}
	points = append(points, Point{X: SyntheticPoints, Value: value, Valid: true, Raw: current})

	chart.Points = points
	chart.Latest = &value
	chart.Synthetic = true
	return chart
}
