package core

import "strings"

// Paginate slices a fixed-size page out of items. Pages are 1-based;
// a page past the end yields an empty slice. Callers must clamp page
// to >= 1 before calling. The input slice is never mutated.
func Paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages is the number of pages needed for itemCount items, 0 for
// an empty collection.
func TotalPages(itemCount, pageSize int) int {
	if pageSize <= 0 || itemCount <= 0 {
		return 0
	}
	return (itemCount + pageSize - 1) / pageSize
}

// FilterBySearchTerm keeps the items whose selected string fields
// contain the term, case-insensitively. An empty or whitespace-only
// term matches everything. fields extracts the searchable strings
// from an item (e.g. description and category name).
func FilterBySearchTerm[T any](items []T, term string, fields func(T) []string) []T {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return items
	}
	var out []T
	for _, item := range items {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
