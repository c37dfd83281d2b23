package authkit

import "time"

// PageFilter provides offset/limit pagination for list operations. A zero
// Limit falls back to the Config page size.
type PageFilter struct {
	Limit  int
	Offset int
}

// NewPageFilter creates a PageFilter with default values.
func NewPageFilter() PageFilter {
	return PageFilter{}
}

// WithLimit sets the page size.
func (f PageFilter) WithLimit(limit int) PageFilter {
	f.Limit = limit
	return f
}

// WithOffset sets the number of rows to skip.
func (f PageFilter) WithOffset(offset int) PageFilter {
	f.Offset = offset
	return f
}

// WithPagination sets both limit and offset.
func (f PageFilter) WithPagination(limit, offset int) PageFilter {
	f.Limit = limit
	f.Offset = offset
	return f
}

// limitOr returns the filter limit, or def when unset.
func (f PageFilter) limitOr(def int) int {
	if f.Limit > 0 {
		return f.Limit
	}
	return def
}

// ResetRequestFilter selects active password-reset requests for watermark
// pagination: call repeatedly with Since set to the last returned RequestAt
// (skipping the last-seen request id) until fewer than Limit rows return.
type ResetRequestFilter struct {
	// Since filters to requests issued at or after this instant.
	Since time.Time

	// Pagination
	Limit  int
	Offset int
}

// NewResetRequestFilter creates a ResetRequestFilter with default values.
func NewResetRequestFilter() ResetRequestFilter {
	return ResetRequestFilter{}
}

// WithSince sets the request-time watermark.
func (f ResetRequestFilter) WithSince(since time.Time) ResetRequestFilter {
	f.Since = since
	return f
}

// WithLimit sets the page size.
func (f ResetRequestFilter) WithLimit(limit int) ResetRequestFilter {
	f.Limit = limit
	return f
}

// WithOffset sets the number of rows to skip.
func (f ResetRequestFilter) WithOffset(offset int) ResetRequestFilter {
	f.Offset = offset
	return f
}
