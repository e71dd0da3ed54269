// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package layout

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/finboard/internal/logging"
	"github.com/tomtom215/finboard/internal/models"
)

// ExportFileName is the suggested download name for an exported layout.
const ExportFileName = "finboard-config.json"

// ErrNotArray is returned when an imported layout is not a JSON array.
var ErrNotArray = errors.New("layout must be a JSON array")

// Store persists the layout as a single opaque blob.
type Store interface {
	// Load returns the saved blob, or nil when nothing has been saved.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Backend() string
	Close() error
}

// Decode parses a layout blob. The only structural check is that data is a
// JSON array; elements that do not decode as widgets are skipped.
func Decode(data []byte) ([]models.Widget, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotArray, err)
	}

	widgets := make([]models.Widget, 0, len(elems))
	for i, raw := range elems {
		var w models.Widget
		if err := json.Unmarshal(raw, &w); err != nil {
			logging.Warn().Err(err).Int("index", i).Msg("Skipping undecodable layout entry")
			continue
		}
		widgets = append(widgets, w)
	}
	return widgets, nil
}

// Encode serializes widgets in the compact form used for persistence.
func Encode(widgets []models.Widget) ([]byte, error) {
	if widgets == nil {
		widgets = []models.Widget{}
	}
	data, err := json.Marshal(widgets)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return data, nil
}

// Export serializes widgets as indented JSON for download.
func Export(widgets []models.Widget) ([]byte, error) {
	if widgets == nil {
		widgets = []models.Widget{}
	}
	data, err := json.MarshalIndent(widgets, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export layout: %w", err)
	}
	return data, nil
}
