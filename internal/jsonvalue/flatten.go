// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package jsonvalue

import "sort"

// Entry is one leaf produced by Flatten.
type Entry struct {
	Path  string `json:"path"`
	Value Value  `json:"value"`
}

// Flatten turns a nested object into dotted-path leaves, sorted by path.
// It descends into objects only; arrays, scalars and null are leaves.
// A root that is not an object produces no entries.
func Flatten(v Value) []Entry {
	var entries []Entry
	flattenInto(&entries, v, "")
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries
}

// FlattenMap is Flatten keyed by path.
func FlattenMap(v Value) map[string]Value {
	entries := Flatten(v)
	out := make(map[string]Value, len(entries))
	for _, e := range entries {
		out[e.Path] = e.Value
	}
	return out
}

func flattenInto(entries *[]Entry, v Value, prefix string) {
	if v.kind != KindObject {
		return
	}
	for key, child := range v.obj {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if child.kind == KindObject {
			flattenInto(entries, child, path)
			continue
		}
		*entries = append(*entries, Entry{Path: path, Value: child})
	}
}
