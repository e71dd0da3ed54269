// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package jsonvalue

import "strings"

// Resolve walks a dotted path ("market_data.current_price.usd") through
// nested objects. Each segment is an object key lookup; there is no index
// syntax, so "items.0" looks for a key named "0".
//
// The walk stops at the first undefined, null or non-object value and returns
// undefined. An empty path always resolves to undefined.
func Resolve(v Value, path string) Value {
	if path == "" {
		return Value{}
	}

	current := v
	for _, segment := range strings.Split(path, ".") {
		if current.kind != KindObject {
			return Value{}
		}
		next, ok := current.obj[segment]
		if !ok {
			return Value{}
		}
		current = next
	}
	return current
}

// LastSegment returns the final component of a dotted path.
func LastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}
