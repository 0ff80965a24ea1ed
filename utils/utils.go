package utils

import "math"

// Listing page sizes. The sale-event feed can hold tens of thousands of
// rows, so pages are clamped rather than trusting the query string.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Pagination describes one page of a listing response.
type Pagination struct {
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
}

// CreatePagination normalizes page/pageSize inputs and derives the page
// count. Non-positive inputs get defaults; oversized pages are clamped.
func CreatePagination(totalItems, page, pageSize int) *Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))

	return &Pagination{
		TotalItems:  totalItems,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
	}
}

// Offset is the row offset of the current page.
func (p *Pagination) Offset() int {
	return (p.CurrentPage - 1) * p.PageSize
}
