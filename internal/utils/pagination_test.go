package utils

import (
	"math"
	"testing"
)

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		// empty -> default
		{"", 10, 10},
		// valid ints
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		// invalid -> default (no trim)
		{"x", 5, 5},
		{" 42", 7, 7},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ n, lo, hi, want int }{
		{5, 1, 10, 5},
		{0, 1, 10, 1},
		{11, 1, 10, 10},
		{5, 7, 3, 7},
	}
	for _, tc := range cases {
		if got := Clamp(tc.n, tc.lo, tc.hi); got != tc.want {
			t.Fatalf("Clamp(%d, %d, %d) = %d; want %d", tc.n, tc.lo, tc.hi, got, tc.want)
		}
	}
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		page, size, total      int
		start, end, totalPages int
	}{
		{1, 10, 25, 0, 10, 3},
		{3, 10, 25, 20, 25, 3},
		{4, 10, 25, 25, 25, 3},
		{1, 10, 0, 0, 0, 0},
		{0, 10, 5, 0, 5, 1},
		{1, 0, 2, 0, 1, 2},
		{math.MaxInt, 10, 25, 25, 25, 3},
		{math.MaxInt / 10, 20, 100, 100, 100, 5},
		{2, math.MaxInt, 5, 5, 5, 1},
		{math.MinInt, 10, 25, 0, 10, 3},
	}
	for _, tc := range cases {
		s, e, p := PageWindow(tc.page, tc.size, tc.total)
		if s != tc.start || e != tc.end || p != tc.totalPages {
			t.Fatalf("PageWindow(%d, %d, %d) = (%d, %d, %d); want (%d, %d, %d)",
				tc.page, tc.size, tc.total, s, e, p, tc.start, tc.end, tc.totalPages)
		}
	}
}
