// Package listview applies directory-style filter, sort and page operations
// to an in-memory slice. It backs endpoints that fetch a bounded working set
// and shape it per request instead of pushing every refinement into SQL.
package listview

import (
	"sort"
	"strings"
)

// Filter keeps the items whose searchable fields contain term as a
// case-insensitive substring. An empty term keeps everything. fields
// returns the candidate strings for one item.
func Filter[T any](items []T, term string, fields func(T) []string) []T {
	if term == "" {
		return items
	}
	needle := strings.ToLower(term)
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range fields(it) {
			if strings.Contains(strings.ToLower(f), needle) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// SortStable orders items by less, preserving the relative order of items
// that compare equal.
func SortStable[T any](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

// Page returns the items on the requested 1-based page and the page number
// actually served. A page past the end of the result set resets to 1, so a
// narrowed filter never leaves the caller stranded on an empty page.
func Page[T any](items []T, page, size int) ([]T, int) {
	if size <= 0 {
		size = 1
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) && page > 1 {
		page = 1
		start = 0
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	if start > end {
		start = end
	}
	return items[start:end], page
}
