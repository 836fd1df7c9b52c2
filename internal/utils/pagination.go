// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Clamp bounds n to [lo, hi]. lo wins when lo > hi.
func Clamp(n, lo, hi int) int {
	if n > hi {
		n = hi
	}
	if n < lo {
		n = lo
	}
	return n
}

// PageWindow returns the [start, end) slice bounds of page (1-based) of size
// pageSize over total items, and the number of pages. Pages past the last one
// yield an empty window at total.
func PageWindow(page, pageSize, total int) (start, end, pages int) {
	if pageSize < 1 {
		pageSize = 1
	}
	if total < 0 {
		total = 0
	}
	pages = total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	page = Clamp(page, 1, pages+1)
	start = (page - 1) * pageSize
	if start > total {
		start = total
	}
	end = total
	if pageSize < total-start {
		end = start + pageSize
	}
	return start, end, pages
}
