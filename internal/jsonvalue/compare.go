// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package jsonvalue

import "strings"

// Compare imposes a total order on values so that columns holding mixed
// types sort the same way every time. Kinds order as
//
//	undefined < null < bool < number < string < array < object
//
// and within a kind: false < true, numbers numerically, strings byte-wise,
// arrays and objects by their compact JSON text.
//
// The result is negative when a sorts before b, zero when they are equal and
// positive otherwise.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}

	switch a.kind {
	case KindUndefined, KindNull:
		return 0
	case KindBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	case KindNumber:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		default:
			return 0
		}
	case KindString:
		return strings.Compare(a.str, b.str)
	default:
		return strings.Compare(Text(a), Text(b))
	}
}
