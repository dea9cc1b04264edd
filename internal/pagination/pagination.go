// Package pagination slices ordered result sets into fixed-size pages.
package pagination

import "strconv"

// QuestionsPerPage is the page size used by every question listing.
const QuestionsPerPage = 10

// Page returns the items of the 1-based page. Pages outside the range,
// including page numbers below 1, yield an empty slice.
func Page[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}

	// compare page counts so huge page numbers cannot overflow start
	pages := (len(items) + size - 1) / size
	if page-1 >= pages {
		return []T{}
	}

	start := (page - 1) * size

	end := start + size
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}

// ParsePage parses a page query parameter, defaulting to 1
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}
