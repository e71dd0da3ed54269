// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package view

import (
	"sort"
	"strings"

	"github.com/tomtom215/finboard/internal/jsonvalue"
	"github.com/tomtom215/finboard/internal/models"
)

// PageSize is the fixed number of rows per table page.
const PageSize = 5

// Column describes one table header.
type Column struct {
	ID        string               `json:"id"`
	Label     string               `json:"label"`
	Path      string               `json:"path"`
	Sorted    bool                 `json:"sorted"`
	Direction models.SortDirection `json:"direction,omitempty"`
}

// Cell is one resolved field of a row.
type Cell struct {
	Value jsonvalue.Value `json:"value"`
	Text  string          `json:"text"`
}

// Row is one record on the current page.
type Row struct {
	Cells []Cell `json:"cells"`
}

// Table is the derived view of a table widget.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`

	// SourceCount counts extracted records before filtering.
	SourceCount int `json:"source_count"`
	// TotalCount counts records matching the search query.
	TotalCount int `json:"total_count"`

	PageIndex int `json:"page_index"`
	PageCount int `json:"page_count"`
	// DisplayPageCount is PageCount but never below 1, for "Page 1 of 1" labels.
	DisplayPageCount int  `json:"display_page_count"`
	HasPrev          bool `json:"has_prev"`
	HasNext          bool `json:"has_next"`
}

// Filter keeps records where any field's text contains query, ignoring case.
// An empty query keeps everything. Order is preserved.
func Filter(recs []jsonvalue.Value, fields []models.FieldSpec, query string) []jsonvalue.Value {
	out := make([]jsonvalue.Value, 0, len(recs))
	if query == "" {
		return append(out, recs...)
	}

	needle := strings.ToLower(query)
	for _, rec := range recs {
		for _, f := range fields {
			text := jsonvalue.Text(jsonvalue.Resolve(rec, f.Path))
			if strings.Contains(strings.ToLower(text), needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// Sort returns a stably sorted copy ordered by the value at key. An empty
// key returns the records in their original order.
func Sort(recs []jsonvalue.Value, key string, dir models.SortDirection) []jsonvalue.Value {
	out := append([]jsonvalue.Value(nil), recs...)
	if key == "" {
		return out
	}

	keys := make([]jsonvalue.Value, len(out))
	for i, rec := range out {
		keys[i] = jsonvalue.Resolve(rec, key)
	}

	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(i, j int) bool {
		c := jsonvalue.Compare(keys[idx[i]], keys[idx[j]])
		if dir == models.SortDesc {
			return c > 0
		}
		return c < 0
	})

	sorted := make([]jsonvalue.Value, len(out))
	for i, k := range idx {
		sorted[i] = out[k]
	}
	return sorted
}

// PageCount returns ceil(n / PageSize).
func PageCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

// Paginate returns the records on page pageIndex. Pages past the end are empty.
func Paginate(recs []jsonvalue.Value, pageIndex int) []jsonvalue.Value {
	if pageIndex < 0 {
		pageIndex = 0
	}
	start := pageIndex * PageSize
	if start >= len(recs) {
		return []jsonvalue.Value{}
	}
	end := start + PageSize
	if end > len(recs) {
		end = len(recs)
	}
	return recs[start:end]
}

// BuildTable runs filter, sort and paginate over the extracted records.
func BuildTable(recs []jsonvalue.Value, fields []models.FieldSpec, state models.ViewState) Table {
	filtered := Filter(recs, fields, state.SearchQuery)
	sorted := Sort(filtered, state.SortKey, state.SortDirection)
	page := Paginate(sorted, state.PageIndex)
	pages := PageCount(len(sorted))

	columns := make([]Column, len(fields))
	for i, f := range fields {
		col := Column{ID: f.ID, Label: f.Label, Path: f.Path}
		if state.SortKey != "" && state.SortKey == f.Path {
			col.Sorted = true
			col.Direction = state.SortDirection
		}
		columns[i] = col
	}

	rows := make([]Row, len(page))
	for i, rec := range page {
		cells := make([]Cell, len(fields))
		for j, f := range fields {
			v := jsonvalue.Resolve(rec, f.Path)
			cells[j] = Cell{Value: v, Text: jsonvalue.Text(v)}
		}
		rows[i] = Row{Cells: cells}
	}

	display := pages
	if display < 1 {
		display = 1
	}

	return Table{
		Columns:          columns,
		Rows:             rows,
		SourceCount:      len(recs),
		TotalCount:       len(sorted),
		PageIndex:        state.PageIndex,
		PageCount:        pages,
		DisplayPageCount: display,
		HasPrev:          state.PageIndex > 0,
		HasNext:          state.PageIndex < pages-1,
	}
}
