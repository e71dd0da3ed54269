// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package jsonvalue

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Text renders v the way a table cell or search filter sees it:
//
//	string     the raw string, unquoted
//	number     the original literal ("42.10")
//	bool       "true" / "false"
//	null       "null"
//	undefined  ""
//	array      compact JSON
//	object     compact JSON, keys sorted
func Text(v Value) string {
	switch v.kind {
	case KindUndefined:
		return ""
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber, KindString:
		return v.str
	case KindArray, KindObject:
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

// ToNumber applies the numeric coercion used for chart points: numbers pass
// through, strings holding a decimal literal are parsed, everything else
// (including the empty string) is not numeric.
func ToNumber(v Value) (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
