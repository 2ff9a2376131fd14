// Package pagination slices ordered result sets into fixed-size pages
// addressed by a 1-based page number.
package pagination

// DefaultPageSize is the page size used by every listing scope.
const DefaultPageSize = 10

// Page is a bounded slice of an ordered result set plus metadata.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Number      int  `json:"number"`
	Size        int  `json:"size"`
	TotalItems  int  `json:"total_items"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Paginate returns the requested page of items. The input slice is treated
// as an already-ordered snapshot and is never mutated.
//
// Out-of-range requests clamp instead of failing: a page number below 1
// (the caller maps absent or non-numeric input to 0) resolves to the first
// page, and a number beyond the last page resolves to the last page. An
// empty input still yields a valid first page with no items.
func Paginate[T any](items []T, size, number int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}

	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])

	return Page[T]{
		Items:       pageItems,
		Number:      number,
		Size:        size,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}
}
