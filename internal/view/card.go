// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package view

import (
	"github.com/tomtom215/finboard/internal/jsonvalue"
	"github.com/tomtom215/finboard/internal/models"
)

// Placeholder is shown for card fields with nothing to display.
const Placeholder = "-"

// CardField is one label/value pair of a card.
type CardField struct {
	ID      string          `json:"id"`
	Label   string          `json:"label"`
	Path    string          `json:"path"`
	Value   jsonvalue.Value `json:"value"`
	Text    string          `json:"text"`
	Present bool            `json:"present"`
}

// Card is the derived view of a card widget.
type Card struct {
	Fields []CardField `json:"fields"`
}

// BuildCard resolves every field against the whole payload. Values are shown
// as received: the string "101.5" stays a string.
func BuildCard(raw jsonvalue.Value, fields []models.FieldSpec) Card {
	out := make([]CardField, len(fields))
	for i, f := range fields {
		v := jsonvalue.Resolve(raw, f.Path)
		text := jsonvalue.Text(v)
		if isBlank(v) {
			text = Placeholder
		}
		out[i] = CardField{
			ID:      f.ID,
			Label:   f.Label,
			Path:    f.Path,
			Value:   v,
			Text:    text,
			Present: v.IsPresent(),
		}
	}
	return Card{Fields: out}
}

func isBlank(v jsonvalue.Value) bool {
	switch v.Kind() {
	case jsonvalue.KindUndefined, jsonvalue.KindNull:
		return true
	case jsonvalue.KindString:
		s, _ := v.Str()
		return s == ""
	default:
		return false
	}
}
