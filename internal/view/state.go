// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package view

import (
	"github.com/tomtom215/finboard/internal/models"
)

// Patch is a partial view-state update. Nil fields are left alone.
// Fields apply in declaration order: search, sort, page, step.
type Patch struct {
	Search     *string `json:"search,omitempty" validate:"omitempty,max=256"`
	ToggleSort *string `json:"toggle_sort,omitempty" validate:"omitempty,max=512"`
	Page       *int    `json:"page,omitempty" validate:"omitempty,gte=0"`
	// Step moves one page forward (+1) or back (-1).
	Step *int `json:"step,omitempty" validate:"omitempty,oneof=-1 1"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Search == nil && p.ToggleSort == nil && p.Page == nil && p.Step == nil
}

// WithSearch sets the query and returns to the first page. Sort is kept.
func WithSearch(s models.ViewState, query string) models.ViewState {
	s.SearchQuery = query
	s.PageIndex = 0
	return s
}

// WithSortToggle handles a click on a column header: the active ascending
// column flips to descending, anything else sorts ascending by path.
func WithSortToggle(s models.ViewState, path string) models.ViewState {
	if s.SortKey == path && s.SortDirection == models.SortAsc {
		s.SortDirection = models.SortDesc
		return s
	}
	s.SortKey = path
	s.SortDirection = models.SortAsc
	return s
}

// WithPage jumps to page i. Negative values clamp to 0; an index past the
// end is kept and renders as an empty page.
func WithPage(s models.ViewState, i int) models.ViewState {
	if i < 0 {
		i = 0
	}
	s.PageIndex = i
	return s
}

// NextPage advances only while another page exists.
func NextPage(s models.ViewState, pageCount int) models.ViewState {
	if s.PageIndex < pageCount-1 {
		s.PageIndex++
	}
	return s
}

// PrevPage steps back, stopping at the first page.
func PrevPage(s models.ViewState) models.ViewState {
	if s.PageIndex > 0 {
		s.PageIndex--
	}
	return s
}

// Apply folds a patch into s. pageCount bounds forward steps.
func Apply(s models.ViewState, p Patch, pageCount int) models.ViewState {
	if p.Search != nil {
		s = WithSearch(s, *p.Search)
	}
	if p.ToggleSort != nil {
		s = WithSortToggle(s, *p.ToggleSort)
	}
	if p.Page != nil {
		s = WithPage(s, *p.Page)
	}
	if p.Step != nil {
		switch {
		case *p.Step > 0:
			s = NextPage(s, pageCount)
		case *p.Step < 0:
			s = PrevPage(s)
		}
	}
	return s
}
