// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package jsonvalue

import (
	"sort"
	"testing"
)

func TestCompare_KindOrder(t *testing.T) {
	t.Parallel()

	ordered := []Value{
		Undefined(),
		Null(),
		Bool(false),
		Bool(true),
		Number(-5),
		Number(2),
		Number(10),
		String(""),
		String("10"),
		String("2"),
		String("B"),
		String("a"),
		Array(Number(1)),
		Array(Number(2)),
		Object(map[string]Value{"a": Number(1)}),
	}

	for i := range ordered {
		for j := range ordered {
			got := Compare(ordered[i], ordered[j])
			switch {
			case i < j && got >= 0:
				t.Errorf("Compare(%s, %s) = %d, want < 0", Text(ordered[i]), Text(ordered[j]), got)
			case i > j && got <= 0:
				t.Errorf("Compare(%s, %s) = %d, want > 0", Text(ordered[i]), Text(ordered[j]), got)
			case i == j && got != 0:
				t.Errorf("Compare(%s, %s) = %d, want 0", Text(ordered[i]), Text(ordered[j]), got)
			}
		}
	}
}

func TestCompare_NumbersIgnoreLiteral(t *testing.T) {
	t.Parallel()

	a := mustParse(t, `1.0`)
	b := mustParse(t, `1`)
	if Compare(a, b) != 0 {
		t.Errorf("Compare(1.0, 1) = %d, want 0", Compare(a, b))
	}
}

func TestCompare_MixedColumnSortsDeterministically(t *testing.T) {
	t.Parallel()

	column := []Value{String("abc"), Number(3), Null(), Undefined(), Number(1), Bool(true)}
	sort.SliceStable(column, func(i, j int) bool { return Compare(column[i], column[j]) < 0 })

	want := []string{"", "null", "true", "1", "3", "abc"}
	for i, v := range column {
		if Text(v) != want[i] {
			t.Errorf("column[%d] = %q, want %q", i, Text(v), want[i])
		}
	}
}

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"undefined", Undefined(), ""},
		{"null", Null(), "null"},
		{"true", Bool(true), "true"},
		{"string", String("101.5"), "101.5"},
		{"number", Number(42), "42"},
		{"fraction", Number(0.25), "0.25"},
		{"object", Object(map[string]Value{"b": Number(2), "a": String("x")}), `{"a":"x","b":2}`},
		{"array", Array(Bool(false), Null()), `[false,null]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Text(tt.value); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value Value
		want  float64
		ok    bool
	}{
		{"number", Number(3.5), 3.5, true},
		{"numeric string", String("101.5"), 101.5, true},
		{"padded string", String(" 7 "), 7, true},
		{"empty string", String(""), 0, false},
		{"word", String("abc"), 0, false},
		{"infinity word", String("Inf"), 0, false},
		{"bool", Bool(true), 0, false},
		{"null", Null(), 0, false},
		{"undefined", Undefined(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ToNumber(tt.value)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ToNumber() = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
