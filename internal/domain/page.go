package domain

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps Page*Size within an int for any allowed size.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// PageRequest is a zero-based page number and a page size.
type PageRequest struct {
	Page int
	Size int
}

// Normalize clamps the request into valid bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Limit is the SQL LIMIT for the page.
func (p PageRequest) Limit() int { return p.Normalize().Size }

// Offset is the SQL OFFSET for the page.
func (p PageRequest) Offset() int {
	n := p.Normalize()
	return n.Page * n.Size
}

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items []T
	Page  int
	Size  int
	Total int
}

// NewPage builds a page for the given request.
func NewPage[T any](items []T, req PageRequest, total int) Page[T] {
	n := req.Normalize()
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Page: n.Page, Size: n.Size, Total: total}
}

// TotalPages is the number of pages needed for Total items.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}
