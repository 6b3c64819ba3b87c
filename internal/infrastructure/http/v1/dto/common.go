// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"gims/internal/domain"
)

// --- List Query ---

// ListQuery contains the common list parameters bound from the query
// string.
type ListQuery struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"activeOnly"`
	OrderBy    string `form:"orderBy"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts the query into the domain filter, applying the
// default page size.
func (q ListQuery) ToFilter() domain.ListFilter {
	limit := q.Limit
	if limit == 0 {
		limit = 50
	}
	return domain.ListFilter{
		Search:     q.Search,
		ActiveOnly: q.ActiveOnly,
		OrderBy:    q.OrderBy,
		Limit:      limit,
		Offset:     q.Offset,
	}
}

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// FromListResult converts a domain list result.
func FromListResult[T any](r domain.ListResult[T]) ListResponse {
	return ListResponse{
		Items:      r.Items,
		TotalCount: r.TotalCount,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details. The error field carries the
// machine-readable code.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
